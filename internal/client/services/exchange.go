package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/giftswap/internal/client/models"
	"github.com/dmitrijs2005/giftswap/internal/common"
	"github.com/dmitrijs2005/giftswap/internal/logging"
)

// Matcher draws the pairs for a list of participants.
type Matcher interface {
	Generate(participants []models.Participant) []models.Pair
}

// ListStore is the persistence the service needs. history.Store implements it.
type ListStore interface {
	Upsert(ctx context.Context, list models.List) error
	Rename(ctx context.Context, list models.List, newTitle string) (models.List, error)
	CheckTitle(ctx context.Context, id, title string) error
	Get(ctx context.Context, id string) (models.List, error)
	List(ctx context.Context) []models.List
}

// ExchangeService is what the presentation layer calls. Every method that
// changes a list persists it; when that write fails the changed list is still
// returned, together with an error wrapping common.ErrStorageUnavailable.
type ExchangeService interface {
	NewList(ctx context.Context, title string) (models.List, error)
	AddName(ctx context.Context, list models.List, name string) (models.List, error)
	RemoveName(ctx context.Context, list models.List, name string) (models.List, error)
	RemoveParticipant(ctx context.Context, list models.List, id string) (models.List, error)
	SetTitle(ctx context.Context, list models.List, title string) (models.List, error)
	Shuffle(ctx context.Context, list models.List) (models.List, error)
	ListHistory(ctx context.Context) []models.List
	SelectList(ctx context.Context, id string) (models.List, error)
}

type exchangeService struct {
	store   ListStore
	matcher Matcher
	logger  logging.Logger
	now     func() time.Time
}

func NewExchangeService(store ListStore, matcher Matcher, logger logging.Logger) ExchangeService {
	return newExchangeService(store, matcher, logger)
}

func newExchangeService(store ListStore, matcher Matcher, logger logging.Logger) *exchangeService {
	return &exchangeService{
		store:   store,
		matcher: matcher,
		logger:  logger.With("component", "exchange"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewList starts an empty list called title and stores it. A title owned by
// another list is kept on the returned list but nothing is stored.
func (s *exchangeService) NewList(ctx context.Context, title string) (models.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.List{}, common.ErrEmptyTitle
	}

	return s.persist(ctx, models.NewList(title))
}

func (s *exchangeService) AddName(ctx context.Context, list models.List, name string) (models.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return list, common.ErrEmptyName
	}

	list = list.Clone()
	list.Participants = append(list.Participants, models.NewParticipant(name))
	s.redraw(&list)
	return s.persist(ctx, list)
}

// RemoveName removes the first participant called name.
func (s *exchangeService) RemoveName(ctx context.Context, list models.List, name string) (models.List, error) {
	i := list.IndexOfName(strings.TrimSpace(name))
	if i < 0 {
		return list, fmt.Errorf("%w: %q", common.ErrParticipantNotFound, name)
	}
	return s.removeAt(ctx, list, i)
}

// RemoveParticipant removes the participant with the given id, which is the
// only unambiguous way to remove one of several people sharing a name.
func (s *exchangeService) RemoveParticipant(ctx context.Context, list models.List, id string) (models.List, error) {
	i := list.IndexOfID(id)
	if i < 0 {
		return list, fmt.Errorf("%w: id %s", common.ErrParticipantNotFound, id)
	}
	return s.removeAt(ctx, list, i)
}

func (s *exchangeService) removeAt(ctx context.Context, list models.List, i int) (models.List, error) {
	list = list.Clone()
	list.Participants = slices.Delete(list.Participants, i, i+1)
	s.redraw(&list)
	return s.persist(ctx, list)
}

// SetTitle renames list. Keeping the current title is a no-op. On a conflict the provisional title is returned with
// common.ErrTitleConflict so the user can keep editing, and nothing is stored.
func (s *exchangeService) SetTitle(ctx context.Context, list models.List, title string) (models.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return list, common.ErrEmptyTitle
	}

	provisional := list.Clone()
	provisional.Title = title
	if err := s.store.CheckTitle(ctx, list.ID, title); err != nil {
		return provisional, err
	}
	if title == list.Title {
		return list, nil
	}

	list = list.Clone()
	list.Touch(s.now())
	renamed, err := s.store.Rename(ctx, list, title)
	if err != nil {
		if !errors.Is(err, common.ErrTitleConflict) {
			s.logger.Warn(ctx, "list not saved", "id", list.ID, "error", err)
		}
		return provisional, err
	}
	return renamed, nil
}

// Shuffle draws new matches for the same participants.
func (s *exchangeService) Shuffle(ctx context.Context, list models.List) (models.List, error) {
	list = list.Clone()
	s.redraw(&list)
	return s.persist(ctx, list)
}

func (s *exchangeService) ListHistory(ctx context.Context) []models.List {
	return s.store.List(ctx)
}

// SelectList fetches a stored list. Matches that no longer fit the
// participants, as can happen with hand-edited or legacy data, are drawn
// again and stored.
func (s *exchangeService) SelectList(ctx context.Context, id string) (models.List, error) {
	list, err := s.store.Get(ctx, id)
	if err != nil {
		return models.List{}, err
	}
	if err := list.Validate(); err != nil {
		s.logger.Info(ctx, "stored matches invalid, drawing again", "id", id, "reason", err)
		s.redraw(&list)
		return s.persist(ctx, list)
	}
	return list, nil
}

func (s *exchangeService) redraw(list *models.List) {
	list.Matches = s.matcher.Generate(list.Participants)
}

// persist stamps and stores list. A list still carrying a provisional title
// that clashes with another list is returned unsaved with
// common.ErrTitleConflict.
func (s *exchangeService) persist(ctx context.Context, list models.List) (models.List, error) {
	list.Touch(s.now())
	if err := s.store.Upsert(ctx, list); err != nil {
		if !errors.Is(err, common.ErrTitleConflict) {
			s.logger.Warn(ctx, "list not saved", "id", list.ID, "error", err)
		}
		return list, err
	}
	return list, nil
}
