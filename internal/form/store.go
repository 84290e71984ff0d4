package form

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Draft is a chat user's form as filled in so far.
type Draft struct {
	Values    Values
	UpdatedAt time.Time
}

func (d Draft) Get(name string) string {
	return d.Values.Get(name)
}

// Summary renders the draft one field per line, unset fields marked with "-".
func (d Draft) Summary() string {
	var b strings.Builder
	for _, f := range Fields {
		v := d.Get(f)
		if v == "" {
			v = "-"
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", f, v))
	}
	return strings.TrimRight(b.String(), "\n")
}

type draftKey struct {
	ChatID int64
	UserID int64
}

// Store keeps one draft per (chat, user). Drafts live in memory only.
type Store struct {
	mu sync.Mutex
	m  map[draftKey]*Draft
}

func NewStore() *Store {
	return &Store{m: make(map[draftKey]*Draft)}
}

func (s *Store) Get(chatID, userID int64) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getOrCreateLocked(chatID, userID).clone()
}

// Set stores value under field; an empty value clears it.
func (s *Store) Set(chatID, userID int64, field, value string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.getOrCreateLocked(chatID, userID)
	value = strings.TrimSpace(value)
	if value == "" {
		delete(d.Values, field)
	} else {
		d.Values[field] = value
	}
	d.UpdatedAt = time.Now()
	return d.clone()
}

func (s *Store) Reset(chatID, userID int64) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &Draft{Values: Values{}, UpdatedAt: time.Now()}
	s.m[draftKey{ChatID: chatID, UserID: userID}] = d
	return d.clone()
}

func (s *Store) getOrCreateLocked(chatID, userID int64) *Draft {
	key := draftKey{ChatID: chatID, UserID: userID}
	if d, ok := s.m[key]; ok {
		return d
	}
	d := &Draft{Values: Values{}, UpdatedAt: time.Now()}
	s.m[key] = d
	return d
}

func (d *Draft) clone() Draft {
	out := Draft{Values: make(Values, len(d.Values)), UpdatedAt: d.UpdatedAt}
	for k, v := range d.Values {
		out.Values[k] = v
	}
	return out
}
