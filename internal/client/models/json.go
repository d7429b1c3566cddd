package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// listJSON is the persisted shape of a List. names/matches keep the plain
// string format older payloads were written in; participants/pairs carry the
// ids. Readers prefer the id form and fall back to names.
type listJSON struct {
	ID           string        `json:"id,omitempty"`
	Title        string        `json:"title"`
	Names        []string      `json:"names"`
	Matches      [][2]string   `json:"matches"`
	Participants []Participant `json:"participants,omitempty"`
	Pairs        []pairJSON    `json:"pairs,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type pairJSON struct {
	Giver     string `json:"giver"`
	Recipient string `json:"recipient"`
}

// MarshalJSON implements json.Marshaler.
func (l List) MarshalJSON() ([]byte, error) {
	dto := listJSON{
		ID:           l.ID,
		Title:        l.Title,
		Names:        l.Names(),
		Matches:      make([][2]string, len(l.Matches)),
		Participants: l.Participants,
		Pairs:        make([]pairJSON, len(l.Matches)),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	for i, m := range l.Matches {
		dto.Matches[i] = [2]string{m.Giver.Name, m.Recipient.Name}
		dto.Pairs[i] = pairJSON{Giver: m.Giver.ID, Recipient: m.Recipient.ID}
	}
	return json.Marshal(dto)
}

var participantNamespace = uuid.MustParse("9d3e2a47-61c8-4f0b-b5a2-7e14c0d98f31")

// UnmarshalJSON implements json.Unmarshaler. Participants stored without an
// id, or with an id an earlier participant already holds, get one derived
// from the list and their position, so decoding the same payload twice gives
// the same ids. Matches that cannot be resolved are left empty so the caller
// can detect it with Validate and regenerate.
func (l *List) UnmarshalJSON(data []byte) error {
	var dto listJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}

	stored := dto.Participants
	if len(stored) == 0 {
		stored = make([]Participant, len(dto.Names))
		for i, name := range dto.Names {
			stored[i] = Participant{Name: name}
		}
	}

	listKey := dto.ID
	if listKey == "" {
		listKey = dto.Title
	}
	participants := make([]Participant, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for i, p := range stored {
		if _, dup := seen[p.ID]; p.ID == "" || dup {
			p.ID = derivedParticipantID(listKey, i, p.Name)
		}
		seen[p.ID] = struct{}{}
		participants = append(participants, p)
	}

	matches, ok := resolveByID(participants, dto.Pairs)
	if !ok {
		matches, ok = resolveByName(participants, dto.Matches)
	}
	if !ok {
		matches = []Pair{}
	}

	*l = List{
		ID:           dto.ID,
		Title:        dto.Title,
		Participants: participants,
		Matches:      matches,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
	}
	return nil
}

func derivedParticipantID(listKey string, i int, name string) string {
	seed := listKey + "/" + strconv.Itoa(i) + "/" + name
	return uuid.NewSHA1(participantNamespace, []byte(seed)).String()
}

func resolveByID(participants []Participant, pairs []pairJSON) ([]Pair, bool) {
	if len(pairs) == 0 {
		return nil, false
	}
	byID := make(map[string]Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	out := make([]Pair, 0, len(pairs))
	for _, raw := range pairs {
		g, ok := byID[raw.Giver]
		if !ok {
			return nil, false
		}
		r, ok := byID[raw.Recipient]
		if !ok {
			return nil, false
		}
		out = append(out, Pair{Giver: g, Recipient: r})
	}
	return out, true
}

// resolveByName maps name pairs onto participants. Participants sharing a
// name are interchangeable here, so the first unused slot wins, skipping the
// giver's own slot when choosing the recipient.
func resolveByName(participants []Participant, raw [][2]string) ([]Pair, bool) {
	if len(raw) == 0 {
		return []Pair{}, true
	}
	usedGiver := make([]bool, len(participants))
	usedRecipient := make([]bool, len(participants))

	out := make([]Pair, 0, len(raw))
	for _, m := range raw {
		gi := -1
		for i, p := range participants {
			if !usedGiver[i] && p.Name == m[0] {
				gi = i
				break
			}
		}
		if gi < 0 {
			return nil, false
		}
		ri := -1
		for i, p := range participants {
			if i != gi && !usedRecipient[i] && p.Name == m[1] {
				ri = i
				break
			}
		}
		if ri < 0 {
			return nil, false
		}
		usedGiver[gi] = true
		usedRecipient[ri] = true
		out = append(out, Pair{Giver: participants[gi], Recipient: participants[ri]})
	}
	return out, true
}
