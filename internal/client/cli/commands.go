package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/giftswap/internal/client/models"
	"github.com/dmitrijs2005/giftswap/internal/common"
)

const hintTooFew = "Add two names to see matches"

// New starts a new list, asking for the title when none was given.
func (a *App) New(ctx context.Context, title string) error {
	title, err := a.argOrPrompt(title, "List title")
	if err != nil {
		return err
	}
	l, err := a.service.NewList(ctx, title)
	return a.apply(ctx, l, err)
}

func (a *App) Title(ctx context.Context, title string) error {
	title, err := a.argOrPrompt(title, "New title")
	if err != nil {
		return err
	}
	l, err := a.service.SetTitle(ctx, *a.active, title)
	return a.apply(ctx, l, err)
}

func (a *App) Add(ctx context.Context, name string) error {
	name, err := a.argOrPrompt(name, "Participant name")
	if err != nil {
		return err
	}
	l, err := a.service.AddName(ctx, *a.active, name)
	return a.apply(ctx, l, err)
}

// Remove takes either a name, removing its first occurrence, or #n for the
// n-th participant of the last show.
func (a *App) Remove(ctx context.Context, target string) error {
	target, err := a.argOrPrompt(target, "Name to remove")
	if err != nil {
		return err
	}

	var l models.List
	if n, ok := strings.CutPrefix(target, "#"); ok {
		p, err := a.shownParticipant(n)
		if err != nil {
			printlnFn(err.Error())
			return err
		}
		l, err = a.service.RemoveParticipant(ctx, *a.active, p.ID)
		return a.apply(ctx, l, err)
	}

	l, err = a.service.RemoveName(ctx, *a.active, target)
	return a.apply(ctx, l, err)
}

func (a *App) Shuffle(ctx context.Context) error {
	l, err := a.service.Shuffle(ctx, *a.active)
	return a.apply(ctx, l, err)
}

// Show prints the active list: its title, the participants sorted by name
// and the matches, or a hint while there are fewer than two names.
func (a *App) Show(ctx context.Context) error {
	l := a.active
	a.shown = l.SortedParticipants()

	printlnFn(fmt.Sprintf("== %s ==", l.Title))
	if len(a.shown) == 0 {
		printlnFn("No participants yet.")
	}
	for i, p := range a.shown {
		printlnFn(fmt.Sprintf("%3d. %s", i+1, p.Name))
	}

	if !l.HasMatches() {
		printlnFn(hintTooFew)
		return nil
	}
	printlnFn("Matches:")
	for _, m := range l.Matches {
		printlnFn("  " + m.String())
	}
	return nil
}

func (a *App) History(ctx context.Context) error {
	a.listed = a.service.ListHistory(ctx)
	if len(a.listed) == 0 {
		printlnFn("No saved lists yet.")
		return nil
	}
	for i, l := range a.listed {
		marker := " "
		if a.active != nil && a.active.ID == l.ID {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s%3d. %s (%d participants, updated %s)",
			marker, i+1, l.Title, len(l.Participants), l.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
	return nil
}

// Select makes a saved list active. ref is a number from the last history
// output or a list id.
func (a *App) Select(ctx context.Context, ref string) error {
	ref, err := a.argOrPrompt(ref, "List number or id")
	if err != nil {
		return err
	}

	id := ref
	if n, err := strconv.Atoi(ref); err == nil {
		if a.listed == nil {
			a.listed = a.service.ListHistory(ctx)
		}
		if n < 1 || n > len(a.listed) {
			err := fmt.Errorf("no list number %d, see 'history'", n)
			printlnFn(err.Error())
			return err
		}
		id = a.listed[n-1].ID
	}

	l, err := a.service.SelectList(ctx, id)
	return a.apply(ctx, l, err)
}

// apply makes l the active list after a service call and tells the user what
// happened. Errors that leave the list unchanged are reported and l is
// dropped; errors that only mean "not saved" keep l.
func (a *App) apply(ctx context.Context, l models.List, err error) error {
	switch {
	case err == nil:
		a.setActive(l, false)
		return a.Show(ctx)

	case errors.Is(err, common.ErrTitleConflict):
		a.setActive(l, true)
		printlnFn(fmt.Sprintf("Warning: another list is already titled %q. Choose a different title; changes are not saved until then.", l.Title))
		return a.Show(ctx)

	case errors.Is(err, common.ErrStorageUnavailable):
		a.setActive(l, true)
		printlnFn("Warning: changes were not saved:", err)
		return a.Show(ctx)

	case errors.Is(err, common.ErrEmptyName):
		printlnFn("Name can't be empty")
	case errors.Is(err, common.ErrEmptyTitle):
		printlnFn("Title can't be empty")
	case errors.Is(err, common.ErrParticipantNotFound), errors.Is(err, common.ErrNotFound):
		printlnFn("Not found:", err)
	default:
		a.logger.Error(ctx, "command failed", "error", err)
		printlnFn("Error:", err)
	}
	return err
}

func (a *App) setActive(l models.List, unsaved bool) {
	if a.active == nil || a.active.ID != l.ID {
		a.shown = nil
	}
	a.active = &l
	a.unsaved = unsaved
}

func (a *App) shownParticipant(n string) (models.Participant, error) {
	i, err := strconv.Atoi(n)
	if err != nil || i < 1 || i > len(a.shown) {
		return models.Participant{}, fmt.Errorf("%w: #%s, see 'show'", common.ErrParticipantNotFound, n)
	}
	return a.shown[i-1], nil
}

func (a *App) argOrPrompt(arg, prompt string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	return GetSimpleText(a.reader, prompt, a.promptOut)
}
