package booking

import (
	"errors"
	"testing"
)

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		name      string
		room      string
		requester string
		date      string
		start     string
		end       string
		wantField string
	}{
		{"valid", "Rally", "Ana", "10/06/2024", "09:00", "10:00", ""},
		{"trims whitespace", " Rally ", " Ana ", "10/06/2024", "09:00", "10:00", ""},
		{"empty room", "", "Ana", "10/06/2024", "09:00", "10:00", "room"},
		{"empty requester", "Rally", "  ", "10/06/2024", "09:00", "10:00", "requester"},
		{"storage date format rejected", "Rally", "Ana", "2024-06-10", "09:00", "10:00", "date"},
		{"garbage date", "Rally", "Ana", "10-06-2024", "09:00", "10:00", "date"},
		{"bad start", "Rally", "Ana", "10/06/2024", "9am", "10:00", "start"},
		{"bad end", "Rally", "Ana", "10/06/2024", "09:00", "25:00", "end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCandidate(tt.room, tt.requester, tt.date, tt.start, tt.end)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if c.Room != "Rally" || c.Requester != "Ana" {
					t.Errorf("fields not trimmed: %+v", c)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("Rally", "Ana", "10/06/2024", "09:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Room != "Rally" || k.Requester != "Ana" || k.Start.String() != "09:00" {
		t.Errorf("unexpected key %+v", k)
	}

	if _, err := ParseKey("Rally", "Ana", "10/06/2024", "late"); err == nil {
		t.Error("bad start time must fail")
	}
	if _, err := ParseKey("", "Ana", "10/06/2024", "09:00"); err == nil {
		t.Error("empty room must fail")
	}
}
