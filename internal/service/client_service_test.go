package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitcrm/internal/repository"
	"alcyxob/fitcrm/internal/validation"
)

// newTestService returns a store over a fresh memory slot with a
// deterministic id sequence and a clock that advances one minute per
// call, so createdAt and updatedAt are always distinguishable.
func newTestService() (*clientService, *repository.MemorySlot) {
	slot := repository.NewMemorySlot()
	seq := 0
	current := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	svc := &clientService{
		slot: slot,
		now: func() time.Time {
			current = current.Add(time.Minute)
			return current
		},
		newID: func() string {
			seq++
			return fmt.Sprintf("c_test_%d", seq)
		},
	}
	return svc, slot
}

func joLee() ClientInput {
	return ClientInput{
		Name:      "Jo Lee",
		Email:     "jo@x.com",
		Phone:     "1234567",
		Goal:      "lose weight",
		StartDate: "2024-01-01",
	}
}

func TestCreate_ThenFindByID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, joLee())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.UpdatedAt)

	found, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, created.CreatedAt.Equal(found.CreatedAt))
	assert.Nil(t, found.UpdatedAt)
	assert.Equal(t, "Jo Lee", found.Name)
	assert.Equal(t, "jo@x.com", found.Email)
	assert.Equal(t, "1234567", found.Phone)
	assert.Equal(t, "lose weight", found.Goal)
	assert.Equal(t, "2024-01-01", found.StartDate)
}

func TestCreate_InvalidInputWritesNothing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, joLee())
	require.NoError(t, err)
	require.Len(t, svc.ListAll(ctx), 1)

	short := joLee()
	short.Name = "A"
	_, err = svc.Create(ctx, short)
	require.Error(t, err)
	assert.Equal(t, validation.MsgNameRequired, err.Error())

	var vErr validation.Error
	assert.ErrorAs(t, err, &vErr)

	// The failed create must not have touched the collection.
	assert.Len(t, svc.ListAll(ctx), 1)
}

func TestFindByID_Missing(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.FindByID(context.Background(), "c_nope")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestUpdate_PreservesIdentityAndPosition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, joLee())
	require.NoError(t, err)
	second := joLee()
	second.Name = "Ana Silva"
	second.Email = "ana@x.com"
	_, err = svc.Create(ctx, second)
	require.NoError(t, err)

	patch := joLee()
	patch.Goal = "build muscle"
	updated, err := svc.Update(ctx, first.ID, patch)
	require.NoError(t, err)

	assert.Equal(t, first.ID, updated.ID)
	assert.True(t, first.CreatedAt.Equal(updated.CreatedAt))
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, "build muscle", updated.Goal)

	// Position in the collection is unchanged.
	all := svc.ListAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, "build muscle", all[0].Goal)
	assert.Equal(t, "Ana Silva", all[1].Name)
}

func TestUpdate_AlwaysRefreshesUpdatedAt(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, joLee())
	require.NoError(t, err)

	one, err := svc.Update(ctx, created.ID, joLee())
	require.NoError(t, err)
	require.NotNil(t, one.UpdatedAt)

	two, err := svc.Update(ctx, created.ID, joLee())
	require.NoError(t, err)
	require.NotNil(t, two.UpdatedAt)
	assert.True(t, two.UpdatedAt.After(*one.UpdatedAt))
	assert.True(t, created.CreatedAt.Equal(two.CreatedAt))
}

func TestUpdate_MissingID(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), "c_nope", joLee())
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestUpdate_InvalidPatchWritesNothing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, joLee())
	require.NoError(t, err)

	bad := joLee()
	bad.Email = "not-an-email"
	_, err = svc.Update(ctx, created.ID, bad)
	require.Error(t, err)
	assert.Equal(t, validation.MsgEmailRequired, err.Error())

	kept, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jo@x.com", kept.Email)
	assert.Nil(t, kept.UpdatedAt)
}

func TestDelete_Idempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, joLee())
	require.NoError(t, err)
	other := joLee()
	other.Name = "Bruno"
	kept, err := svc.Create(ctx, other)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.Len(t, svc.ListAll(ctx), 1)

	// Second delete of the same id, and a delete of a never-existing id,
	// both succeed and change nothing.
	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, "c_nope"))

	all := svc.ListAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].ID)
}

func TestSearch_Semantics(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ana := joLee()
	ana.Name = "Ana Silva"
	_, err := svc.Create(ctx, ana)
	require.NoError(t, err)

	bruno := joLee()
	bruno.Name = "Bruno"
	_, err = svc.Create(ctx, bruno)
	require.NoError(t, err)

	// Case-insensitive substring match on name only.
	matches := svc.Search(ctx, "an")
	require.Len(t, matches, 1)
	assert.Equal(t, "Ana Silva", matches[0].Name)

	assert.Len(t, svc.Search(ctx, "AN"), 1)
	assert.Len(t, svc.Search(ctx, "silva"), 1)
	assert.Empty(t, svc.Search(ctx, "charlie"))

	// Matching never looks at other fields.
	assert.Empty(t, svc.Search(ctx, "jo@x.com"))

	// Empty and whitespace-only queries return the full listing in order.
	assert.Equal(t, svc.ListAll(ctx), svc.Search(ctx, ""))
	assert.Equal(t, svc.ListAll(ctx), svc.Search(ctx, "   "))
}

func TestSearch_PreservesRelativeOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, name := range []string{"Ana Silva", "Bruno", "Mariana", "Adriana"} {
		input := joLee()
		input.Name = name
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	matches := svc.Search(ctx, "ana")
	require.Len(t, matches, 3)
	assert.Equal(t, "Ana Silva", matches[0].Name)
	assert.Equal(t, "Mariana", matches[1].Name)
	assert.Equal(t, "Adriana", matches[2].Name)
}

func TestListAll_TreatsCorruptSlotAsEmpty(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"malformed json", []byte(`{"not`)},
		{"non-array value", []byte(`{"clients": true}`)},
		{"json null", []byte(`null`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, slot := newTestService()
			slot.Seed(tt.data)
			assert.Empty(t, svc.ListAll(context.Background()))
		})
	}
}

func TestListAll_EmptySlot(t *testing.T) {
	svc, _ := newTestService()
	assert.Empty(t, svc.ListAll(context.Background()))
}

// A corrupt slot recovers silently: the next create starts a fresh
// collection and persists it.
func TestCreate_RecoversFromCorruptSlot(t *testing.T) {
	svc, slot := newTestService()
	ctx := context.Background()
	slot.Seed([]byte(`garbage`))

	created, err := svc.Create(ctx, joLee())
	require.NoError(t, err)

	all := svc.ListAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
}

func TestMutations_PropagateWriteFailure(t *testing.T) {
	svc, slot := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, joLee())
	require.NoError(t, err)

	writeErr := errors.New("disk full")
	slot.FailSave = writeErr

	_, err = svc.Create(ctx, joLee())
	assert.ErrorIs(t, err, writeErr)

	_, err = svc.Update(ctx, created.ID, joLee())
	assert.ErrorIs(t, err, writeErr)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), writeErr)
}

// Net effect of a create/update/delete sequence is exactly what remains,
// in insertion order.
func TestRoundTrip_SequenceOfMutations(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Ana Silva", "Bruno", "Carla"} {
		input := joLee()
		input.Name = name
		created, err := svc.Create(ctx, input)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	patch := joLee()
	patch.Name = "Bruno Costa"
	_, err := svc.Update(ctx, ids[1], patch)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ids[0]))

	all := svc.ListAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "Bruno Costa", all[0].Name)
	assert.Equal(t, "Carla", all[1].Name)
}

func TestNewClientID_Shape(t *testing.T) {
	id := NewClientID()
	assert.Regexp(t, `^c_[0-9a-z]+_[0-9a-f]{7}$`, id)
	assert.NotEqual(t, id, NewClientID())
}
