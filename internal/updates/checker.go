// Package updates checks a remote manifest for newer application
// releases. It only reports availability; installing is up to the
// operator.
package updates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"
)

// Manifest is the remote release descriptor.
type Manifest struct {
	Latest      string `json:"latest"`
	DownloadURL string `json:"download_url"`
	Changelog   string `json:"changelog"`
}

// Result describes the outcome of one check.
type Result struct {
	Current     string
	Latest      string
	Available   bool
	DownloadURL string
	Changelog   string
}

// Checker fetches the release manifest over HTTP.
type Checker struct {
	url        string
	current    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

// NewChecker creates a checker comparing against the given current
// version.
func NewChecker(url, current string, logger *zerolog.Logger) *Checker {
	return &Checker{
		url:        url,
		current:    current,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Check fetches the manifest and compares versions. A manifest with an
// unparseable version is an error, not a silent no-update.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build update request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch update manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("update manifest: unexpected status %d", resp.StatusCode)
	}

	var m Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode update manifest: %w", err)
	}

	latest := canonical(m.Latest)
	current := canonical(c.current)
	if !semver.IsValid(latest) {
		return nil, fmt.Errorf("update manifest: invalid version %q", m.Latest)
	}
	if !semver.IsValid(current) {
		return nil, fmt.Errorf("invalid current version %q", c.current)
	}

	result := &Result{
		Current:     c.current,
		Latest:      m.Latest,
		Available:   semver.Compare(latest, current) > 0,
		DownloadURL: m.DownloadURL,
		Changelog:   m.Changelog,
	}

	if result.Available {
		c.logger.Info().
			Str("current", result.Current).
			Str("latest", result.Latest).
			Str("download_url", result.DownloadURL).
			Msg("update available")
	} else {
		c.logger.Debug().Str("current", result.Current).Msg("application up to date")
	}
	return result, nil
}

// canonical normalizes a version string to the "vX.Y.Z" form semver
// expects.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
