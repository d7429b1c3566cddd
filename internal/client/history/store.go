package history

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/giftswap/internal/client/models"
	"github.com/dmitrijs2005/giftswap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/giftswap/internal/common"
	"github.com/dmitrijs2005/giftswap/internal/logging"
)

// Store is the only code path that touches the persisted history.
type Store struct {
	repo   metadata.Repository
	key    string
	logger logging.Logger

	// mu keeps read-modify-write sequences of one process from interleaving.
	mu sync.Mutex
}

// NewStore returns a Store keeping the history under key in repo.
func NewStore(repo metadata.Repository, key string, logger logging.Logger) *Store {
	if key == "" {
		key = common.HistoryKey
	}
	return &Store{
		repo:   repo,
		key:    key,
		logger: logger.With("component", "history", "key", key),
	}
}

// Load returns every stored list keyed by id. It never fails: storage and
// decoding problems are logged and yield an empty map.
func (s *Store) Load(ctx context.Context) map[string]models.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) map[string]models.List {
	data, err := s.repo.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn(ctx, "history unavailable, starting empty", "error", err)
		return map[string]models.List{}
	}
	all, err := decode(data)
	if err != nil {
		s.logger.Warn(ctx, "history malformed, starting empty", "error", err)
		return map[string]models.List{}
	}
	return all
}

// Save replaces the whole history with all in a single write.
func (s *Store) Save(ctx context.Context, all map[string]models.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encode(all)
	if err != nil {
		return fmt.Errorf("%w: encode history: %w", common.ErrStorageUnavailable, err)
	}
	if err := s.repo.Set(ctx, s.key, data); err != nil {
		s.logger.Warn(ctx, "history not saved", "error", err)
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

// Upsert stores list under its id, replacing any previous version. A title
// owned by another stored list is refused with common.ErrTitleConflict and
// nothing is written.
func (s *Store) Upsert(ctx context.Context, list models.List) error {
	if list.ID == "" {
		return errors.New("list has no id")
	}
	err := s.mutate(ctx, func(all map[string]models.List) error {
		if owner, ok := findByTitle(all, list.Title); ok && owner.ID != list.ID {
			return fmt.Errorf("%w: %q", common.ErrTitleConflict, list.Title)
		}
		all[list.ID] = list.Clone()
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug(ctx, "list saved", "id", list.ID, "title", list.Title, "participants", len(list.Participants))
	return nil
}

// Rename stores list under newTitle. The title check and the write happen in
// the same transaction, so two lists can never end up sharing a title.
func (s *Store) Rename(ctx context.Context, list models.List, newTitle string) (models.List, error) {
	if list.ID == "" {
		return list, errors.New("list has no id")
	}
	renamed := list.Clone()
	renamed.Title = newTitle

	err := s.mutate(ctx, func(all map[string]models.List) error {
		if owner, ok := findByTitle(all, newTitle); ok && owner.ID != renamed.ID {
			return fmt.Errorf("%w: %q", common.ErrTitleConflict, newTitle)
		}
		all[renamed.ID] = renamed
		return nil
	})
	if err != nil {
		return list, err
	}
	s.logger.Debug(ctx, "list renamed", "id", renamed.ID, "from", list.Title, "to", newTitle)
	return renamed, nil
}

// CheckTitle reports common.ErrTitleConflict when a list other than id owns
// title. A list keeping its own title is not a conflict.
func (s *Store) CheckTitle(ctx context.Context, id, title string) error {
	if owner, ok := findByTitle(s.Load(ctx), title); ok && owner.ID != id {
		return fmt.Errorf("%w: %q", common.ErrTitleConflict, title)
	}
	return nil
}

// Get returns the list with the given id.
func (s *Store) Get(ctx context.Context, id string) (models.List, error) {
	l, ok := s.Load(ctx)[id]
	if !ok {
		return models.List{}, fmt.Errorf("list %s: %w", id, common.ErrNotFound)
	}
	return l, nil
}

// List returns every stored list, most recently updated first.
func (s *Store) List(ctx context.Context) []models.List {
	all := s.Load(ctx)
	out := make([]models.List, 0, len(all))
	for _, l := range all {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b models.List) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// mutate runs fn over the decoded history and writes the result back in one
// repository transaction. Errors returned by fn are passed through unchanged;
// storage errors are wrapped in common.ErrStorageUnavailable.
func (s *Store) mutate(ctx context.Context, fn func(all map[string]models.List) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fnErr error
	err := s.repo.Update(ctx, s.key, func(old []byte) ([]byte, error) {
		all, err := decode(old)
		if err != nil {
			s.logger.Warn(ctx, "history malformed, overwriting", "error", err)
			all = map[string]models.List{}
		}
		if fnErr = fn(all); fnErr != nil {
			return nil, fnErr
		}
		return encode(all)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		s.logger.Warn(ctx, "history not saved", "error", err)
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

// findByTitle returns the list owning title. Blank titles are never owned.
func findByTitle(all map[string]models.List, title string) (models.List, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.List{}, false
	}
	for _, l := range all {
		if strings.TrimSpace(l.Title) == title {
			return l, true
		}
	}
	return models.List{}, false
}
