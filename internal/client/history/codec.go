package history

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/giftswap/internal/client/models"
	"github.com/dmitrijs2005/giftswap/internal/common"
	"github.com/google/uuid"
)

var legacyNamespace = uuid.MustParse("5b0c6f0e-8d1a-4c9e-9f4e-2a7d3c1b6e58")

// decode parses a persisted history document into an id-keyed map.
func decode(data []byte) (map[string]models.List, error) {
	all := make(map[string]models.List)

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return all, nil
	}

	switch data[0] {
	case '{':
		var raw map[string]models.List
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrMalformedData, err)
		}
		for key, l := range raw {
			// Title-keyed documents: the key doubles as the title.
			if l.Title == "" && l.ID == "" {
				l.Title = key
			}
			put(all, l, key)
		}
	case '[':
		var raw []models.List
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrMalformedData, err)
		}
		for i, l := range raw {
			put(all, l, fmt.Sprintf("%d:%s", i, l.Title))
		}
	default:
		return nil, fmt.Errorf("%w: unexpected document start %q", common.ErrMalformedData, data[0])
	}
	return all, nil
}

// put stores l under its id. Entries written before ids existed get one
// derived from seed, so repeated loads agree on it until the next write
// persists it.
func put(all map[string]models.List, l models.List, seed string) {
	if l.ID == "" {
		l.ID = uuid.NewSHA1(legacyNamespace, []byte(seed)).String()
	}
	all[l.ID] = l
}

func encode(all map[string]models.List) ([]byte, error) {
	if all == nil {
		all = map[string]models.List{}
	}
	return json.Marshal(all)
}
