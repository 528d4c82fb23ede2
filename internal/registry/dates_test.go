package registry

import (
	"testing"
	"time"
)

func TestEncodeGlobalDate_AnchorIsZero(t *testing.T) {
	if got := encodeGlobalDate(globalDateZero); got != 0 {
		t.Fatalf("anchor encodes to %d, want 0", got)
	}
}

func TestGlobalDate_KnownOffsets(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2000-01-01", 1},
		{"1999-12-30", -1},
		{"2000-12-31", 366}, // 2000 is a leap year
		{"1998-12-31", -365},
	}

	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.date, err)
		}
		if got := encodeGlobalDate(d); got != tc.want {
			t.Fatalf("encode(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestGlobalDate_RoundTrip(t *testing.T) {
	start := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 40*365; i += 13 {
		d := start.AddDate(0, 0, i)
		got := decodeGlobalDate(encodeGlobalDate(d))
		if !got.Equal(d) {
			t.Fatalf("round trip of %v gave %v", d, got)
		}
	}
}

func TestGlobalDate_NonMidnightInputTruncatesToDay(t *testing.T) {
	noon := time.Date(2018, 4, 10, 12, 30, 0, 0, time.UTC)
	midnight := time.Date(2018, 4, 10, 0, 0, 0, 0, time.UTC)
	if encodeGlobalDate(noon) != encodeGlobalDate(midnight) {
		t.Fatal("time of day should not affect the day offset")
	}
}

func TestGlobalDatePtr_NullIsNotAnchor(t *testing.T) {
	if got := decodeGlobalDatePtr(nil); got != nil {
		t.Fatalf("nil offset decoded to %v, want nil", got)
	}

	zero := 0
	got := decodeGlobalDatePtr(&zero)
	if got == nil || !got.Equal(globalDateZero) {
		t.Fatalf("offset 0 decoded to %v, want anchor date", got)
	}

	if got := encodeGlobalDatePtr(nil); got != nil {
		t.Fatalf("nil date encoded to %v, want nil", got)
	}
}
