// Package models defines the gift exchange data model used by the giftswap CLI:
// participants, the pairs drawn between them, and the named lists that are
// kept in the local history.
package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSelfPair        = errors.New("participant paired with itself")
	ErrMatchesMismatch = errors.New("matches do not cover every participant exactly once")
)

// Participant is one person in a list. Name is only a display label: two
// participants may share a name, so everything is keyed by ID.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewParticipant assigns a fresh identifier to name.
func NewParticipant(name string) Participant {
	return Participant{ID: uuid.NewString(), Name: name}
}

// Pair is a single giver → recipient assignment.
type Pair struct {
	Giver     Participant
	Recipient Participant
}

func (p Pair) String() string {
	return fmt.Sprintf("%s - %s", p.Giver.Name, p.Recipient.Name)
}

// List is a named set of participants together with their derived matches.
// Matches can always be regenerated from Participants and are not
// authoritative on their own.
type List struct {
	ID           string
	Title        string
	Participants []Participant
	Matches      []Pair
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewList starts an empty list with a fresh identifier. Timestamps stay zero
// until the list is first persisted.
func NewList(title string) List {
	return List{
		ID:           uuid.NewString(),
		Title:        title,
		Participants: []Participant{},
		Matches:      []Pair{},
	}
}

// Names returns the participant display names in insertion order.
func (l List) Names() []string {
	names := make([]string, len(l.Participants))
	for i, p := range l.Participants {
		names[i] = p.Name
	}
	return names
}

// SortedParticipants returns a copy of the participants ordered by name,
// case-insensitively. Equal names keep their insertion order.
func (l List) SortedParticipants() []Participant {
	ps := slices.Clone(l.Participants)
	slices.SortStableFunc(ps, func(a, b Participant) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return ps
}

// IndexOfName returns the position of the first participant called name, or -1.
func (l List) IndexOfName(name string) int {
	return slices.IndexFunc(l.Participants, func(p Participant) bool { return p.Name == name })
}

// IndexOfID returns the position of the participant with the given id, or -1.
func (l List) IndexOfID(id string) int {
	return slices.IndexFunc(l.Participants, func(p Participant) bool { return p.ID == id })
}

// HasMatches reports whether the list is big enough to have been paired.
func (l List) HasMatches() bool {
	return len(l.Matches) > 0
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (l List) Clone() List {
	c := l
	c.Participants = slices.Clone(l.Participants)
	c.Matches = slices.Clone(l.Matches)
	if c.Participants == nil {
		c.Participants = []Participant{}
	}
	if c.Matches == nil {
		c.Matches = []Pair{}
	}
	return c
}

// Touch sets UpdatedAt, and CreatedAt too if the list was never persisted.
func (l *List) Touch(now time.Time) {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
}

// Validate checks that Matches is a derangement of Participants: empty below
// two participants, otherwise one pair per participant where every
// participant gives exactly once and receives exactly once, never to itself.
func (l List) Validate() error {
	if len(l.Participants) < 2 {
		if len(l.Matches) != 0 {
			return fmt.Errorf("%w: %d pairs for %d participants", ErrMatchesMismatch, len(l.Matches), len(l.Participants))
		}
		return nil
	}
	if len(l.Matches) != len(l.Participants) {
		return fmt.Errorf("%w: %d pairs for %d participants", ErrMatchesMismatch, len(l.Matches), len(l.Participants))
	}

	known := make(map[string]struct{}, len(l.Participants))
	for _, p := range l.Participants {
		known[p.ID] = struct{}{}
	}

	givers := make(map[string]struct{}, len(l.Matches))
	recipients := make(map[string]struct{}, len(l.Matches))
	for _, m := range l.Matches {
		if m.Giver.ID == m.Recipient.ID {
			return fmt.Errorf("%w: %s", ErrSelfPair, m.Giver.Name)
		}
		if _, ok := known[m.Giver.ID]; !ok {
			return fmt.Errorf("%w: unknown giver %q", ErrMatchesMismatch, m.Giver.Name)
		}
		if _, ok := known[m.Recipient.ID]; !ok {
			return fmt.Errorf("%w: unknown recipient %q", ErrMatchesMismatch, m.Recipient.Name)
		}
		givers[m.Giver.ID] = struct{}{}
		recipients[m.Recipient.ID] = struct{}{}
	}
	if len(givers) != len(known) || len(recipients) != len(known) {
		return ErrMatchesMismatch
	}
	return nil
}
