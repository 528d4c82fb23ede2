package util

import (
	"errors"
	"strings"
	"time"
)

const ReconDateLayout = "2006-01-02"

// ParseReconDate reads a YYYY-MM-DD value and normalizes it to UTC midnight.
func ParseReconDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}

	t, err := time.Parse(ReconDateLayout, s)
	if err != nil {
		return time.Time{}, errors.New("invalid date format (use YYYY-MM-DD)")
	}
	return t.UTC(), nil
}

func FormatReconDate(t time.Time) string {
	return t.UTC().Format(ReconDateLayout)
}

func FormatReconDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatReconDate(*t)
	return &s
}
