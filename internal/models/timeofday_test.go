package models

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"morning", "08:00", 480, false},
		{"midday", "12:30", 750, false},
		{"end of day", "18:00", 1080, false},
		{"midnight", "00:00", 0, false},
		{"last minute", "23:59", 1439, false},
		{"whitespace tolerated", " 09:30 ", 570, false},
		{"missing colon", "0900", 0, true},
		{"too many parts", "09:00:00", 0, true},
		{"hour out of range", "24:00", 0, true},
		{"minute out of range", "10:60", 0, true},
		{"negative hour", "-1:00", 0, true},
		{"not a number", "ab:cd", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	tests := []struct {
		in   TimeOfDay
		want string
	}{
		{480, "08:00"},
		{750, "12:30"},
		{0, "00:00"},
		{1439, "23:59"},
		{545, "09:05"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("TimeOfDay(%d).String() = %q, want %q", int(tt.in), got, tt.want)
		}
	}
}

func TestAlignedTo(t *testing.T) {
	tests := []struct {
		name string
		in   TimeOfDay
		slot int
		want bool
	}{
		{"on the half hour", 510, 30, true},
		{"on the hour", 540, 30, true},
		{"off grid", 525, 30, false},
		{"zero slot", 510, 0, false},
		{"negative slot", 510, -30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.AlignedTo(tt.slot); got != tt.want {
				t.Errorf("AlignedTo(%d) = %v, want %v", tt.slot, got, tt.want)
			}
		})
	}
}
