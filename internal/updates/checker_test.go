package updates

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func manifestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	logger := zerolog.New(io.Discard)

	t.Run("UpdateAvailable", func(t *testing.T) {
		srv := manifestServer(t, http.StatusOK,
			`{"latest":"1.2.0","download_url":"https://example.com/app.zip","changelog":"fixes"}`)

		c := NewChecker(srv.URL, "1.1.0", &logger)
		res, err := c.Check(context.Background())
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !res.Available {
			t.Error("expected update to be available")
		}
		if res.DownloadURL != "https://example.com/app.zip" {
			t.Errorf("download url = %q", res.DownloadURL)
		}
	})

	t.Run("UpToDate", func(t *testing.T) {
		srv := manifestServer(t, http.StatusOK, `{"latest":"1.1.0"}`)

		c := NewChecker(srv.URL, "1.1.0", &logger)
		res, err := c.Check(context.Background())
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if res.Available {
			t.Error("same version must not report an update")
		}
	})

	t.Run("RemoteOlder", func(t *testing.T) {
		srv := manifestServer(t, http.StatusOK, `{"latest":"0.9.0"}`)

		c := NewChecker(srv.URL, "1.1.0", &logger)
		res, err := c.Check(context.Background())
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if res.Available {
			t.Error("older remote must not report an update")
		}
	})

	t.Run("LeadingVPrefixAccepted", func(t *testing.T) {
		srv := manifestServer(t, http.StatusOK, `{"latest":"v2.0.0"}`)

		c := NewChecker(srv.URL, "1.9.9", &logger)
		res, err := c.Check(context.Background())
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !res.Available {
			t.Error("v-prefixed newer version must report an update")
		}
	})

	t.Run("InvalidVersion", func(t *testing.T) {
		srv := manifestServer(t, http.StatusOK, `{"latest":"not-a-version"}`)

		c := NewChecker(srv.URL, "1.1.0", &logger)
		if _, err := c.Check(context.Background()); err == nil {
			t.Error("invalid manifest version must fail")
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		srv := manifestServer(t, http.StatusInternalServerError, "boom")

		c := NewChecker(srv.URL, "1.1.0", &logger)
		if _, err := c.Check(context.Background()); err == nil {
			t.Error("non-200 response must fail")
		}
	})

	t.Run("BadJSON", func(t *testing.T) {
		srv := manifestServer(t, http.StatusOK, "{")

		c := NewChecker(srv.URL, "1.1.0", &logger)
		if _, err := c.Check(context.Background()); err == nil {
			t.Error("malformed body must fail")
		}
	})
}
