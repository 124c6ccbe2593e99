// Package tle handles two-line element text: parsing fetched Celestrak
// responses into entries, retrieving them per catalog number, and caching
// them on disk between CLI runs.
package tle

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Entry represents a single satellite's two-line element set.
type Entry struct {
	NORADID int
	Name    string
	Epoch   time.Time
	Line1   string
	Line2   string
}

// Parse reads Celestrak-style TLE text from r and returns the first entry.
// Accepts both the 2-line form and the 3-line form with a leading name line.
func Parse(r io.Reader) (Entry, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Entry{}, fmt.Errorf("reading TLE data: %w", err)
	}

	var name, line1, line2 string
	for i := 0; i+1 < len(lines); i++ {
		if strings.HasPrefix(lines[i], "1 ") && strings.HasPrefix(lines[i+1], "2 ") {
			line1 = lines[i]
			line2 = lines[i+1]
			if i > 0 {
				name = strings.TrimSpace(lines[i-1])
			}
			break
		}
	}
	if line1 == "" {
		return Entry{}, fmt.Errorf("no TLE line pair found in %d line(s)", len(lines))
	}

	// NORAD ID from line1 cols 3-7.
	if len(line1) < 32 {
		return Entry{}, fmt.Errorf("line1 too short: %d chars", len(line1))
	}
	noradID, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid NORAD ID %q: %w", line1[2:7], err)
	}

	// Epoch from line1 cols 19-32.
	epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid epoch: %w", err)
	}

	return Entry{
		NORADID: noradID,
		Name:    name,
		Epoch:   epoch,
		Line1:   line1,
		Line2:   line2,
	}, nil
}

// parseEpoch converts a TLE epoch string in YYDDD.DDDDDDDD format to time.Time.
// Year 00-56 → 2000s, 57-99 → 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	// dayOfYear is 1-based: day 1 = Jan 1.
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
