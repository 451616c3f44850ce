// Package fetch downloads GDELT Web NGrams 3.0 minute files.
//
// The server publishes one gzipped JSONL file per minute under a flat
// directory, named after the UTC minute it covers. The package resolves
// minute timestamps to filenames, downloads the files it can find and
// decompresses them next to the originals.
package fetch

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// BaseURL is the public GDELT Web NGrams 3.0 file root.
	BaseURL = "http://data.gdeltproject.org/gdeltv3/webngrams"

	// FileSuffix is the suffix of every minute file on the server.
	FileSuffix = ".webngrams.json.gz"

	minuteStamp = "20060102150405"
)

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a UTC timestamp in any of the accepted forms:
// 20250316000100, 2025-03-16T00:01:00 (with or without a trailing Z), or
// the same with a space instead of the T.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(minuteStamp) && isDigits(s) {
		return time.Parse(minuteStamp, s)
	}

	s = strings.TrimSuffix(s, "Z")
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MinuteRange returns every minute from start to end inclusive.
func MinuteRange(start, end time.Time) ([]time.Time, error) {
	if end.Before(start) {
		return nil, errors.New("end time must not be before start time")
	}

	var minutes []time.Time
	for t := start; !t.After(end); t = t.Add(time.Minute) {
		minutes = append(minutes, t)
	}
	return minutes, nil
}

// FilenameForMinute returns the server filename for a minute slot.
func FilenameForMinute(t time.Time) string {
	return t.UTC().Format(minuteStamp) + FileSuffix
}
