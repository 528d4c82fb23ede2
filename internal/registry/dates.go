package registry

import "time"

// The backing store persists recon dates as signed day offsets from a fixed
// anchor date. The anchor itself encodes to 0; a NULL column is "no date",
// which is not the same thing (see decodeGlobalDatePtr).
var globalDateZero = time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC)

var globalDateZeroDay = dayNumber(globalDateZero)

func dayNumber(d time.Time) int64 {
	y, m, day := d.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func encodeGlobalDate(d time.Time) int {
	return int(dayNumber(d) - globalDateZeroDay)
}

func decodeGlobalDate(dayNum int) time.Time {
	return time.Unix((globalDateZeroDay+int64(dayNum))*86400, 0).UTC()
}

func encodeGlobalDatePtr(d *time.Time) *int {
	if d == nil {
		return nil
	}
	n := encodeGlobalDate(*d)
	return &n
}

func decodeGlobalDatePtr(dayNum *int) *time.Time {
	if dayNum == nil {
		return nil
	}
	d := decodeGlobalDate(*dayNum)
	return &d
}
