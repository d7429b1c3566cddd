package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/giftswap/internal/client/history"
	"github.com/dmitrijs2005/giftswap/internal/client/models"
	"github.com/dmitrijs2005/giftswap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/giftswap/internal/client/storage"
	"github.com/dmitrijs2005/giftswap/internal/common"
	"github.com/dmitrijs2005/giftswap/internal/logging"
	"github.com/dmitrijs2005/giftswap/internal/pairing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func setupService(t *testing.T) (*exchangeService, *history.Store, *metadata.SQLiteRepository) {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "giftswap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := metadata.NewSQLiteRepository(db)
	store := history.NewStore(repo, common.HistoryKey, logging.Nop())
	svc := newExchangeService(store, pairing.NewGenerator(rand.NewPCG(1, 2)), logging.Nop())
	c := &clock{t: time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)}
	svc.now = c.now
	return svc, store, repo
}

func withNames(t *testing.T, svc *exchangeService, title string, names ...string) models.List {
	t.Helper()
	ctx := context.Background()
	l, err := svc.NewList(ctx, title)
	require.NoError(t, err)
	for _, n := range names {
		l, err = svc.AddName(ctx, l, n)
		require.NoError(t, err)
	}
	return l
}

type brokenRepo struct{}

var errDiskFull = errors.New("disk full")

func (brokenRepo) Get(context.Context, string) ([]byte, error) { return nil, errDiskFull }
func (brokenRepo) Set(context.Context, string, []byte) error    { return errDiskFull }
func (brokenRepo) Delete(context.Context, string) error         { return errDiskFull }
func (brokenRepo) Update(context.Context, string, func([]byte) ([]byte, error)) error {
	return errDiskFull
}

func TestNewList_PersistsEmptyList(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	l, err := svc.NewList(ctx, "  Office2024 ")
	require.NoError(t, err)
	assert.Equal(t, "Office2024", l.Title)
	assert.Empty(t, l.Participants)
	assert.Empty(t, l.Matches)
	assert.False(t, l.CreatedAt.IsZero())

	got, err := store.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestNewList_EmptyTitle(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.NewList(context.Background(), "   ")
	require.ErrorIs(t, err, common.ErrEmptyTitle)
}

func TestAddName_EmptyNameDoesNotMutate(t *testing.T) {
	svc, _, _ := setupService(t)
	l := withNames(t, svc, "x", "Ann")

	got, err := svc.AddName(context.Background(), l, "  ")
	require.ErrorIs(t, err, common.ErrEmptyName)
	assert.Equal(t, l, got)
}

func TestAddName_OneNameHasNoMatches(t *testing.T) {
	svc, store, _ := setupService(t)
	l := withNames(t, svc, "x", "A")

	assert.Equal(t, []string{"A"}, l.Names())
	assert.Empty(t, l.Matches)

	stored, err := store.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Matches)
}

func TestAddName_TwoNamesSwap(t *testing.T) {
	svc, _, _ := setupService(t)
	l := withNames(t, svc, "x", "Ann", "Bo")

	require.Len(t, l.Matches, 2)
	assert.ElementsMatch(t, []string{"Ann - Bo", "Bo - Ann"}, []string{l.Matches[0].String(), l.Matches[1].String()})
	assert.NoError(t, l.Validate())
}

func TestAddName_UpdatesTimestamps(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	l, err := svc.NewList(ctx, "x")
	require.NoError(t, err)
	created := l.CreatedAt

	l, err = svc.AddName(ctx, l, "Ann")
	require.NoError(t, err)
	assert.Equal(t, created, l.CreatedAt)
	assert.True(t, l.UpdatedAt.After(created))
}

func TestAddName_DuplicateNamesAreDistinct(t *testing.T) {
	svc, _, _ := setupService(t)
	l := withNames(t, svc, "x", "Ann", "Ann", "Bo")

	require.Len(t, l.Participants, 3)
	assert.NotEqual(t, l.Participants[0].ID, l.Participants[1].ID)
	assert.NoError(t, l.Validate())
}

func TestRemoveName_ThreeToTwo(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()
	l := withNames(t, svc, "x", "Ann", "Bo", "Cy")

	l, err := svc.RemoveName(ctx, l, "Bo")
	require.NoError(t, err)

	require.Len(t, l.Matches, 2)
	for _, m := range l.Matches {
		assert.NotEqual(t, "Bo", m.Giver.Name)
		assert.NotEqual(t, "Bo", m.Recipient.Name)
	}
	assert.NoError(t, l.Validate())

	stored, err := store.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l, stored)
}

func TestRemoveName_FirstOccurrenceOnly(t *testing.T) {
	svc, _, _ := setupService(t)
	l := withNames(t, svc, "x", "Ann", "Bo", "Ann")
	second := l.Participants[2].ID

	l, err := svc.RemoveName(context.Background(), l, "Ann")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bo", "Ann"}, l.Names())
	assert.Equal(t, second, l.Participants[1].ID)
}

func TestRemoveName_DownToOneClearsMatches(t *testing.T) {
	svc, _, _ := setupService(t)
	l := withNames(t, svc, "x", "Ann", "Bo")

	l, err := svc.RemoveName(context.Background(), l, "Ann")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bo"}, l.Names())
	assert.Empty(t, l.Matches)
}

func TestRemoveName_Unknown(t *testing.T) {
	svc, _, _ := setupService(t)
	l := withNames(t, svc, "x", "Ann", "Bo")

	got, err := svc.RemoveName(context.Background(), l, "Zed")
	require.ErrorIs(t, err, common.ErrParticipantNotFound)
	assert.Equal(t, l, got)
}

func TestRemoveParticipant_ByID(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	l := withNames(t, svc, "x", "Ann", "Ann", "Bo")
	keep := l.Participants[0].ID

	l, err := svc.RemoveParticipant(ctx, l, l.Participants[1].ID)
	require.NoError(t, err)
	require.Len(t, l.Participants, 2)
	assert.Equal(t, keep, l.Participants[0].ID)

	_, err = svc.RemoveParticipant(ctx, l, "missing")
	require.ErrorIs(t, err, common.ErrParticipantNotFound)
}

func TestSetTitle_ConflictIsProvisional(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	office := withNames(t, svc, "Office2024", "Ann", "Bo")

	_, err := svc.NewList(ctx, "Office2024")
	require.ErrorIs(t, err, common.ErrTitleConflict)

	family := withNames(t, svc, "Family", "Cy")
	got, err := svc.SetTitle(ctx, family, "Office2024")
	require.ErrorIs(t, err, common.ErrTitleConflict)
	assert.Equal(t, "Office2024", got.Title, "title kept in memory")
	assert.Equal(t, family.ID, got.ID)

	stored, err := store.Get(ctx, family.ID)
	require.NoError(t, err)
	assert.Equal(t, "Family", stored.Title, "conflicting title is not stored")

	same, err := svc.SetTitle(ctx, office, "Office2024")
	require.NoError(t, err, "a list may keep its own title")
	assert.Equal(t, "Office2024", same.Title)
}

func TestSetTitle_ConflictBlocksSavesUntilResolved(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	withNames(t, svc, "Office2024", "Ann", "Bo")
	family := withNames(t, svc, "Family", "Cy")

	family, err := svc.SetTitle(ctx, family, "Office2024")
	require.ErrorIs(t, err, common.ErrTitleConflict)

	family, err = svc.AddName(ctx, family, "Dee")
	require.ErrorIs(t, err, common.ErrTitleConflict)
	assert.Equal(t, []string{"Cy", "Dee"}, family.Names(), "in-memory list keeps the change")
	assert.Len(t, family.Matches, 2)

	stored, err := store.Get(ctx, family.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cy"}, stored.Names())

	family, err = svc.SetTitle(ctx, family, "Family 2024")
	require.NoError(t, err)

	stored, err = store.Get(ctx, family.ID)
	require.NoError(t, err)
	assert.Equal(t, "Family 2024", stored.Title)
	assert.Equal(t, []string{"Cy", "Dee"}, stored.Names(), "resolving the title saves pending changes")
}

func TestSetTitle_SameTitleKeepsTimestamp(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	l := withNames(t, svc, "Office2024", "Ann", "Bo")

	got, err := svc.SetTitle(ctx, l, " Office2024 ")
	require.NoError(t, err)
	assert.Equal(t, l, got)

	stored, err := store.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.UpdatedAt, stored.UpdatedAt)

	family := withNames(t, svc, "Family", "Cy")
	family, err = svc.SetTitle(ctx, family, "Office2024")
	require.ErrorIs(t, err, common.ErrTitleConflict)
	_, err = svc.SetTitle(ctx, family, "Office2024")
	require.ErrorIs(t, err, common.ErrTitleConflict, "a provisional title still conflicts")
}

func TestSetTitle_RenameKeepsIdentity(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()
	l := withNames(t, svc, "Office2024", "Ann", "Bo")

	renamed, err := svc.SetTitle(ctx, l, "Office2025")
	require.NoError(t, err)
	assert.Equal(t, l.ID, renamed.ID)
	assert.Equal(t, l.Matches, renamed.Matches)
	assert.True(t, renamed.UpdatedAt.After(l.UpdatedAt))

	lists := store.List(ctx)
	require.Len(t, lists, 1)
	assert.Equal(t, "Office2025", lists[0].Title)

	_, err = svc.SetTitle(ctx, renamed, "")
	require.ErrorIs(t, err, common.ErrEmptyTitle)
}

func TestShuffle_KeepsParticipants(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	l := withNames(t, svc, "x", "Ann", "Bo", "Cy", "Dee", "Eve")

	changed := false
	for i := 0; i < 30; i++ {
		next, err := svc.Shuffle(ctx, l)
		require.NoError(t, err)
		assert.Equal(t, l.Participants, next.Participants)
		assert.NoError(t, next.Validate())
		if !assert.ObjectsAreEqual(l.Matches, next.Matches) {
			changed = true
		}
	}
	assert.True(t, changed)
}

func TestListHistory_MostRecentFirst(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	a := withNames(t, svc, "A")
	withNames(t, svc, "B")
	_, err := svc.AddName(ctx, a, "Ann")
	require.NoError(t, err)

	var titles []string
	for _, l := range svc.ListHistory(ctx) {
		titles = append(titles, l.Title)
	}
	assert.Equal(t, []string{"A", "B"}, titles)
}

func TestSelectList(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	l := withNames(t, svc, "x", "Ann", "Bo", "Cy")

	got, err := svc.SelectList(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l, got)

	_, err = svc.SelectList(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSelectList_RedrawsInvalidMatches(t *testing.T) {
	svc, store, repo := setupService(t)
	ctx := context.Background()

	payload := `{"legacy": {"id":"legacy","title":"Old","names":["Ann","Bo","Cy"],
		"matches":[["Ann","Bo"],["Bo","Ann"]],"createdAt":"2023-12-01T10:00:00Z","updatedAt":"2023-12-01T10:00:00Z"}}`
	require.NoError(t, repo.Set(ctx, common.HistoryKey, []byte(payload)))

	got, err := svc.SelectList(ctx, "legacy")
	require.NoError(t, err)
	assert.NoError(t, got.Validate())
	assert.Len(t, got.Matches, 3)

	stored, err := store.Get(ctx, "legacy")
	require.NoError(t, err)
	assert.NoError(t, stored.Validate())
}

func TestSelectList_RepeatedStoredIDsNeverSelfPair(t *testing.T) {
	svc, store, repo := setupService(t)
	ctx := context.Background()

	payload := `{"L1": {"id":"L1","title":"Pair","participants":[{"id":"p","name":"Ann"},{"id":"p","name":"Bo"}],
		"pairs":[{"giver":"p","recipient":"p"},{"giver":"p","recipient":"p"}],
		"createdAt":"2023-12-01T10:00:00Z","updatedAt":"2023-12-01T10:00:00Z"}}`
	require.NoError(t, repo.Set(ctx, common.HistoryKey, []byte(payload)))

	got, err := svc.SelectList(ctx, "L1")
	require.NoError(t, err)
	require.NoError(t, got.Validate())
	require.Len(t, got.Matches, 2)
	for _, m := range got.Matches {
		assert.NotEqual(t, m.Giver.ID, m.Recipient.ID)
	}

	stored, err := store.Get(ctx, "L1")
	require.NoError(t, err)
	assert.NoError(t, stored.Validate())
}

func TestMutations_StorageFailureKeepsInMemoryList(t *testing.T) {
	store := history.NewStore(brokenRepo{}, "", logging.Nop())
	svc := newExchangeService(store, pairing.NewDefault(), logging.Nop())
	ctx := context.Background()

	l, err := svc.NewList(ctx, "Office2024")
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.Equal(t, "Office2024", l.Title)

	l, err = svc.AddName(ctx, l, "Ann")
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	l, err = svc.AddName(ctx, l, "Bo")
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.Equal(t, []string{"Ann", "Bo"}, l.Names())
	assert.Len(t, l.Matches, 2)

	l, err = svc.Shuffle(ctx, l)
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.Len(t, l.Matches, 2)

	l, err = svc.SetTitle(ctx, l, "Office2025")
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.Equal(t, "Office2025", l.Title)

	assert.Empty(t, svc.ListHistory(ctx))
}
