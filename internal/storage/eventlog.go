package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Event is one line of the mutation log. The log is append-only and purely
// observational: replaying it is a debugging aid, not a recovery path.
type Event struct {
	ID       string          `json:"id"`
	TS       time.Time       `json:"ts"`
	Type     string          `json:"type"`
	EntityID string          `json:"entityId"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// EventLog appends JSONL mutation records under the store directory.
type EventLog struct {
	Dir string
}

func (l EventLog) path() string {
	return filepath.Join(l.Dir, "events", "events.jsonl")
}

// Append writes one event. Single local writer; plain O_APPEND is enough.
func (l EventLog) Append(typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	entityID = strings.TrimSpace(entityID)
	if typ == "" || entityID == "" {
		return errors.New("eventlog: missing type or entity id")
	}

	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	id, err := NewID("ev")
	if err != nil {
		return err
	}
	ev := Event{
		ID:       id,
		TS:       time.Now().UTC(),
		Type:     typ,
		EntityID: entityID,
		Payload:  json.RawMessage(pb),
	}

	if err := os.MkdirAll(filepath.Dir(l.path()), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = f.Write(append(line, '\n'))
	return err
}

// Read returns logged events in file order, up to limit (0 = all).
func (l EventLog) Read(limit int) ([]Event, error) {
	f, err := os.Open(l.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Event{}, nil
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	out := []Event{}
	for sc.Scan() {
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(b, &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
