package notes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planttracker/internal/history"
	"planttracker/internal/notes"
	"planttracker/internal/services"
	"planttracker/internal/testsupport"
)

type fakeUpdater struct {
	err   error
	calls []string
}

func (f *fakeUpdater) UpdateNotes(_ context.Context, id, text string) error {
	f.calls = append(f.calls, id+"="+text)
	return f.err
}

func storeWith(notesText string) *history.Store {
	store := history.New(history.WithLocation(time.UTC))
	store.Insert(testsupport.NewRecord("r1", "Daisy", 80, time.Now(), testsupport.WithNotes(notesText)))
	return store
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from    notes.State
		event   notes.Event
		to      notes.State
		effects []notes.Effect
	}{
		{notes.Viewing, notes.EventEdit, notes.Editing, nil},
		{notes.Editing, notes.EventSave, notes.Saving, []notes.Effect{notes.EffectPersist}},
		{notes.Saving, notes.EventSaveSucceeded, notes.Viewing, []notes.Effect{notes.EffectCommit}},
		{notes.Saving, notes.EventSaveFailed, notes.Editing, []notes.Effect{notes.EffectReportError}},
		{notes.Editing, notes.EventCancel, notes.Viewing, []notes.Effect{notes.EffectDiscardDraft}},
	}
	for _, tc := range cases {
		next, effects, err := notes.Transition(tc.from, tc.event)
		require.NoError(t, err)
		assert.Equal(t, tc.to, next)
		assert.Equal(t, tc.effects, effects)
	}

	for _, bad := range []struct {
		from  notes.State
		event notes.Event
	}{
		{notes.Viewing, notes.EventSave},
		{notes.Viewing, notes.EventCancel},
		{notes.Saving, notes.EventEdit},
		{notes.Saving, notes.EventCancel},
		{notes.Editing, notes.EventSaveSucceeded},
	} {
		next, effects, err := notes.Transition(bad.from, bad.event)
		assert.True(t, errors.Is(err, notes.ErrInvalidTransition))
		assert.Equal(t, bad.from, next)
		assert.Nil(t, effects)
	}
}

func TestInitialState(t *testing.T) {
	assert.Equal(t, notes.Editing, notes.InitialState(""))
	assert.Equal(t, notes.Viewing, notes.InitialState("existing"))
}

func TestControllerSaveCommitsOnSuccess(t *testing.T) {
	store := storeWith("old")
	updater := &fakeUpdater{}
	ctrl, err := notes.New(store, updater, "r1", nil)
	require.NoError(t, err)
	assert.Equal(t, notes.Viewing, ctrl.State())

	require.NoError(t, ctrl.Edit())
	require.NoError(t, ctrl.SetDraft("new text"))
	rec, _ := store.Get("r1")
	assert.Equal(t, "old", rec.Notes, "store untouched before save")

	require.NoError(t, ctrl.Save(context.Background()))
	assert.Equal(t, notes.Viewing, ctrl.State())
	assert.Equal(t, "new text", ctrl.Committed())
	assert.Equal(t, []string{"r1=new text"}, updater.calls)
	rec, _ = store.Get("r1")
	assert.Equal(t, "new text", rec.Notes)
}

func TestControllerSavesFirstNoteFromEditing(t *testing.T) {
	store := storeWith("")
	updater := &fakeUpdater{}
	ctrl, err := notes.New(store, updater, "r1", nil)
	require.NoError(t, err)
	require.Equal(t, notes.Editing, ctrl.State())
	assert.True(t, errors.Is(ctrl.Edit(), notes.ErrInvalidTransition))

	require.NoError(t, ctrl.SetDraft("north fence"))
	require.NoError(t, ctrl.Save(context.Background()))
	assert.Equal(t, notes.Viewing, ctrl.State())
	assert.Equal(t, []string{"r1=north fence"}, updater.calls)
	rec, _ := store.Get("r1")
	assert.Equal(t, "north fence", rec.Notes)
}

func TestControllerSaveFailureKeepsDraft(t *testing.T) {
	store := storeWith("")
	updater := &fakeUpdater{err: services.ErrNetworkFailure}
	ctrl, err := notes.New(store, updater, "r1", nil)
	require.NoError(t, err)
	assert.Equal(t, notes.Editing, ctrl.State())

	require.NoError(t, ctrl.SetDraft("first draft"))
	err = ctrl.Save(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrNetworkFailure))
	assert.Equal(t, notes.Editing, ctrl.State())
	assert.Equal(t, "first draft", ctrl.Draft())
	assert.Equal(t, err, ctrl.Err())
	rec, _ := store.Get("r1")
	assert.Empty(t, rec.Notes)
	assert.Len(t, updater.calls, 1, "no automatic retry")

	updater.err = nil
	require.NoError(t, ctrl.Save(context.Background()))
	assert.NoError(t, ctrl.Err())
	rec, _ = store.Get("r1")
	assert.Equal(t, "first draft", rec.Notes)
}

func TestControllerCancelRevertsDraft(t *testing.T) {
	store := storeWith("kept")
	ctrl, err := notes.New(store, &fakeUpdater{}, "r1", nil)
	require.NoError(t, err)

	require.NoError(t, ctrl.Edit())
	require.NoError(t, ctrl.SetDraft("scratch"))
	require.NoError(t, ctrl.Cancel())
	assert.Equal(t, notes.Viewing, ctrl.State())
	assert.Equal(t, "kept", ctrl.Draft())

	assert.True(t, errors.Is(ctrl.SetDraft("nope"), notes.ErrInvalidTransition))
	assert.True(t, errors.Is(ctrl.Save(context.Background()), notes.ErrInvalidTransition))
}

func TestNewUnknownRecord(t *testing.T) {
	_, err := notes.New(storeWith(""), &fakeUpdater{}, "missing", nil)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}
