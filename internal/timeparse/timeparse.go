// Package timeparse recognizes time-of-day expressions typed into list items
// (e.g. "Lunch 12:30pm") so planner entries can be scheduled without a modal.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"daybook-cli/internal/model"
)

// A time token is "H:MMam/pm" or "Ham/pm", anchored to the start or end of
// the text. Times in the middle of a sentence are left alone.
var (
	reTrailing = regexp.MustCompile(`(?i)(?:^|\s)(1[0-2]|0?[1-9])(?::([0-5][0-9]))?\s?(am|pm)\s*$`)
	reLeading  = regexp.MustCompile(`(?i)^\s*(1[0-2]|0?[1-9])(?::([0-5][0-9]))?\s?(am|pm)(?:\s|$)`)
)

// Extract pulls a leading or trailing time expression out of text. On a match
// it returns the parsed config and the text with the token stripped; ok is
// false when no time expression is present.
func Extract(text string) (cfg *model.TimeConfig, stripped string, ok bool) {
	if m := reTrailing.FindStringSubmatchIndex(text); m != nil {
		sub := reTrailing.FindStringSubmatch(text)
		start := to24h(sub[1], sub[2], sub[3])
		stripped = strings.TrimSpace(text[:m[0]])
		return &model.TimeConfig{StartTime: start}, stripped, true
	}
	if m := reLeading.FindStringSubmatchIndex(text); m != nil {
		sub := reLeading.FindStringSubmatch(text)
		start := to24h(sub[1], sub[2], sub[3])
		stripped = strings.TrimSpace(text[m[1]:])
		return &model.TimeConfig{StartTime: start}, stripped, true
	}
	return nil, text, false
}

func to24h(hour, minute, meridiem string) string {
	h, _ := strconv.Atoi(hour)
	if minute == "" {
		minute = "00"
	}
	switch strings.ToLower(meridiem) {
	case "pm":
		if h != 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	return fmt.Sprintf("%02d:%s", h, minute)
}
