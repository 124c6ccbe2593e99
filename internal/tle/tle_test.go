package tle

import (
	"strings"
	"testing"
	"time"
)

const (
	issName  = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   25278.49802050  .00011384  00000+0  20935-3 0  9990"
	issLine2 = "2 25544  51.6327 120.3420 0000884 206.2421 153.8523 15.49697304532279"
)

func TestParseThreeLine(t *testing.T) {
	text := issName + "\n" + issLine1 + "\n" + issLine2 + "\n"
	entry, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entry.NORADID != 25544 {
		t.Errorf("NORADID = %d, want 25544", entry.NORADID)
	}
	if entry.Name != issName {
		t.Errorf("Name = %q, want %q", entry.Name, issName)
	}
	if entry.Line1 != issLine1 || entry.Line2 != issLine2 {
		t.Error("lines not preserved verbatim")
	}

	// Epoch 25278.49802050: 2025, day 278 = October 5, ~0.498 through the day.
	want := time.Date(2025, 10, 5, 11, 57, 9, 0, time.UTC)
	if diff := entry.Epoch.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("Epoch = %v, want ~%v", entry.Epoch, want)
	}
}

func TestParseTwoLine(t *testing.T) {
	text := issLine1 + "\r\n" + issLine2 + "\r\n"
	entry, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entry.Name != "" {
		t.Errorf("Name = %q, want empty for 2-line form", entry.Name)
	}
	if entry.NORADID != 25544 {
		t.Errorf("NORADID = %d, want 25544", entry.NORADID)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"blank lines", "\n\n\n"},
		{"prose", "this is\nnot a TLE\nat all"},
		{"only line1", issLine1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.text)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseEpochCentury(t *testing.T) {
	// Year 98 → 1998, year 25 → 2025.
	old, err := parseEpoch("98001.00000000")
	if err != nil {
		t.Fatalf("parseEpoch: %v", err)
	}
	if old.Year() != 1998 {
		t.Errorf("epoch year = %d, want 1998", old.Year())
	}

	recent, err := parseEpoch("25001.50000000")
	if err != nil {
		t.Fatalf("parseEpoch: %v", err)
	}
	if recent.Year() != 2025 || recent.Hour() != 12 {
		t.Errorf("epoch = %v, want 2025-01-01T12:00", recent)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, 2)

	data := []byte(issName + "\n" + issLine1 + "\n" + issLine2 + "\n")
	now := time.Now()
	if err := c.Write(25544, data, now); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, ts, err := c.LoadFresh(25544, time.Hour)
	if err != nil {
		t.Fatalf("LoadFresh: %v", err)
	}
	if string(got) != string(data) {
		t.Error("loaded data differs from written data")
	}
	if ts.Unix() != now.Unix() {
		t.Errorf("timestamp = %v, want %v", ts.Unix(), now.Unix())
	}

	// A different catalog number is a cache miss.
	if _, _, err := c.LoadFresh(48274, time.Hour); err == nil {
		t.Error("expected miss for uncached catalog number")
	}
}

func TestCacheStaleness(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, 2)

	old := time.Now().Add(-48 * time.Hour)
	if err := c.Write(25544, []byte("old"), old); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, _, err := c.LoadFresh(25544, 24*time.Hour); err == nil {
		t.Error("expected stale cache to be rejected")
	}
	if _, _, err := c.LoadFresh(25544, 72*time.Hour); err != nil {
		t.Errorf("expected cache within maxAge to load, got %v", err)
	}
}

func TestCachePrune(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, 2)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		if err := c.Write(25544, []byte("x"), base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	files, err := c.listFiles(25544)
	if err != nil {
		t.Fatalf("listFiles: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("kept %d files, want 2", len(files))
	}
}
