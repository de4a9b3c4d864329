package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseMinutes converts "HH:MM:SS" to fractional minutes. Missing or
// non-numeric parts count as zero.
func ParseMinutes(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	var h, m, sec float64
	switch len(parts) {
	case 3:
		h, m, sec = atof(parts[0]), atof(parts[1]), atof(parts[2])
	case 2:
		h, m = atof(parts[0]), atof(parts[1])
	default:
		return 0
	}
	return h*60 + m + sec/60
}

// FormatMinutes renders minutes as "HH:MM:SS", truncating sub-second residue.
func FormatMinutes(minutes float64) string {
	if minutes <= 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return zeroDuration
	}
	h := math.Floor(minutes / 60)
	m := math.Floor(math.Mod(minutes, 60))
	s := math.Floor((minutes - math.Floor(minutes)) * 60)
	return fmt.Sprintf("%02d:%02d:%02d", int64(h), int64(m), int64(s))
}

func atof(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
