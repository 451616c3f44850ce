package fetch

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 3, 16, 0, 1, 0, 0, time.UTC)
	inputs := []string{
		"20250316000100",
		"2025-03-16T00:01:00",
		"2025-03-16T00:01:00Z",
		"2025-03-16 00:01:00",
		"  2025-03-16T00:01:00Z  ",
	}
	for _, in := range inputs {
		got, err := ParseTimestamp(in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	inputs := []string{
		"",
		"yesterday",
		"2025-03-16",
		"20250316",
		"99999999999999",
		"2025/03/16 00:01:00",
	}
	for _, in := range inputs {
		if _, err := ParseTimestamp(in); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", in)
		}
	}
}

func TestMinuteRange(t *testing.T) {
	start := time.Date(2025, 3, 16, 14, 0, 0, 0, time.UTC)

	minutes, err := MinuteRange(start, start.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("MinuteRange: %v", err)
	}
	if len(minutes) != 6 {
		t.Errorf("got %d minutes, want 6 (both ends inclusive)", len(minutes))
	}
	if !minutes[0].Equal(start) || !minutes[5].Equal(start.Add(5*time.Minute)) {
		t.Errorf("range endpoints wrong: %v .. %v", minutes[0], minutes[5])
	}

	minutes, err = MinuteRange(start, start)
	if err != nil || len(minutes) != 1 {
		t.Errorf("single-slot range: %v, %d minutes", err, len(minutes))
	}

	if _, err := MinuteRange(start, start.Add(-time.Minute)); err == nil {
		t.Error("end before start should fail")
	}
}

func TestMinuteRangeKeepsSeconds(t *testing.T) {
	start := time.Date(2025, 3, 16, 14, 0, 30, 0, time.UTC)
	minutes, err := MinuteRange(start, start.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("MinuteRange: %v", err)
	}
	if len(minutes) != 3 || minutes[1].Second() != 30 {
		t.Errorf("got %v", minutes)
	}
}

func TestFilenameForMinute(t *testing.T) {
	ts := time.Date(2025, 3, 16, 14, 0, 0, 0, time.UTC)
	if got := FilenameForMinute(ts); got != "20250316140000.webngrams.json.gz" {
		t.Errorf("FilenameForMinute = %q", got)
	}

	// Local times are converted to UTC before naming.
	cem := time.FixedZone("CEM", 2*60*60)
	local := time.Date(2025, 3, 16, 16, 0, 0, 0, cem)
	if got := FilenameForMinute(local); got != "20250316140000.webngrams.json.gz" {
		t.Errorf("FilenameForMinute(local) = %q", got)
	}
}
