package sortkey

import (
	"sort"
	"strings"
)

// Timed is the neighbor-candidate view of a list item: its current key and,
// for scheduled items, the start time as a zero-padded "HH:MM" string.
// All-day items carry an empty StartTime.
type Timed struct {
	ID        string
	Key       string
	StartTime string
}

// ByStartTime returns a key that places an item with the given start time in
// chronological position among the timed items in others. All-day items are
// skipped when choosing neighbors but still count for key uniqueness, so they
// keep whatever position the user dragged them to.
//
// The chronological predecessor is the latest timed item whose start time is
// <= startTime (ties resolved by key, so equal times keep insertion order);
// the successor is the earliest timed item after it.
func ByStartTime(startTime string, others []Timed) (string, error) {
	startTime = strings.TrimSpace(startTime)

	existing := make(map[string]bool, len(others))
	timed := make([]Timed, 0, len(others))
	for _, o := range others {
		k := strings.ToLower(strings.TrimSpace(o.Key))
		if k != "" {
			existing[k] = true
		}
		if strings.TrimSpace(o.StartTime) != "" {
			timed = append(timed, Timed{ID: o.ID, Key: k, StartTime: strings.TrimSpace(o.StartTime)})
		}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].StartTime != timed[j].StartTime {
			return timed[i].StartTime < timed[j].StartTime
		}
		return timed[i].Key < timed[j].Key
	})

	lower := ""
	upper := ""
	for _, tn := range timed {
		if tn.StartTime <= startTime {
			lower = tn.Key
			continue
		}
		upper = tn.Key
		break
	}

	if lower != "" && upper != "" && !(lower < upper) {
		// Dragging timed items can leave keys out of time order. Prefer the
		// chronological predecessor bound so the new item lands right after it.
		upper = ""
	}
	return BetweenUnique(existing, lower, upper)
}
