package timeutil

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"1d", 24 * time.Hour},
		{"1w2d6h30m", (7*24+2*24+6)*time.Hour + 30*time.Minute},
		{" 2 hours ", 2 * time.Hour},
		{"90s", 90 * time.Second},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "noop", "3 fortnights", "0m", "5m-"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected an error", in)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := map[time.Duration]string{
		0:                             "0s",
		30 * time.Minute:              "30m",
		90 * time.Second:              "1m30s",
		(7*24 + 2*24 + 6) * time.Hour: "1w2d6h",
	}
	for d, want := range tests {
		if got := Format(d); got != want {
			t.Errorf("Format(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestDurationFlag(t *testing.T) {
	d := Duration(30 * time.Minute)
	if d.String() != "30m" {
		t.Errorf("String = %q", d.String())
	}
	if err := d.Set("1d"); err != nil {
		t.Fatal(err)
	}
	if time.Duration(d) != 24*time.Hour {
		t.Errorf("Set(1d) = %v", time.Duration(d))
	}
	if err := d.Set("later"); err == nil {
		t.Error("Set(later): expected an error")
	}
}
