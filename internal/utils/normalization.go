package utils

import (
	"math"
	"strings"
)

func NormalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

// StripFences removes a surrounding markdown code fence (```json ... ```) if present.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ClampScore bounds a score to [lo, hi] and rounds it to one decimal place.
func ClampScore(score, lo, hi float64) float64 {
	if math.IsNaN(score) {
		return lo
	}
	score = math.Max(lo, math.Min(hi, score))
	return math.Round(score*10) / 10
}
