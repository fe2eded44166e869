package models

import (
	"strings"
	"time"
)

// Speaker identifies who authored a conversation turn.
type Speaker string

const (
	SpeakerAI   Speaker = "AI"
	SpeakerUser Speaker = "User"
)

func (s Speaker) Valid() bool {
	return s == SpeakerAI || s == SpeakerUser
}

const (
	DefaultDifficulty = "default"
	MinScore          = 1.0
	MaxScore          = 10.0
	FallbackScore     = 7.0
	MaxTopicLength    = 200
	AllTopicsLabel    = "All Topics"
)

// TimeWindow restricts session listings to a relative period ending now.
// The zero value means unrestricted.
type TimeWindow time.Duration

const (
	WindowAll     TimeWindow = 0
	WindowWeek    TimeWindow = TimeWindow(7 * 24 * time.Hour)
	WindowMonth   TimeWindow = TimeWindow(30 * 24 * time.Hour)
	WindowQuarter TimeWindow = TimeWindow(90 * 24 * time.Hour)
)

var timeWindows = map[string]TimeWindow{
	"":              WindowAll,
	"all":           WindowAll,
	"all time":      WindowAll,
	"7d":            WindowWeek,
	"last 7 days":   WindowWeek,
	"30d":           WindowMonth,
	"last 30 days":  WindowMonth,
	"90d":           WindowQuarter,
	"last 3 months": WindowQuarter,
}

// ParseTimeWindow accepts both the client labels ("Last 7 days") and short forms ("7d").
func ParseTimeWindow(value string) (TimeWindow, bool) {
	w, ok := timeWindows[strings.ToLower(strings.TrimSpace(value))]
	return w, ok
}

// SessionFilter narrows GetAllSessions. Empty Topic matches every topic.
type SessionFilter struct {
	Topic  string
	Window TimeWindow
}
