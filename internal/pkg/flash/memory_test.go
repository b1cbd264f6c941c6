package flash

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleErrors = []action.FieldError{
	{Field: "email", Message: "must be a valid email", Value: "not-an-email", HasValue: true},
	{Field: "password", Message: "password is a required field"},
}

func TestMemory_PutTake(t *testing.T) {
	// Arrange
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemory(clk, uid.NewUUID(), time.Minute)
	ctx := context.Background()

	// Act
	id, err := store.Put(ctx, sampleErrors)
	require.NoError(t, err)
	got, err := store.Take(ctx, id)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, sampleErrors, got)

	_, err = store.Take(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound, "entries are read once")
}

func TestMemory_Expiry(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemory(clk, uid.Static("fixed"), time.Minute)
	ctx := context.Background()

	id, err := store.Put(ctx, sampleErrors)
	require.NoError(t, err)

	clk.Advance(time.Minute)
	_, err = store.Take(ctx, id)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestMemory_PutEvictsExpired(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemory(clk, uid.NewUUID(), time.Second)
	ctx := context.Background()

	_, err := store.Put(ctx, sampleErrors)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)
	_, err = store.Put(ctx, sampleErrors)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
}

func TestMemory_UnknownID(t *testing.T) {
	store := NewMemory(clock.New(), uid.NewUUID(), 0)

	_, err := store.Take(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, DefaultTTL, store.ttl)
}

func TestMemory_StoresCopy(t *testing.T) {
	store := NewMemory(clock.New(), uid.Static("id"), time.Hour)
	errs := []action.FieldError{{Field: "email", Message: "bad"}}

	_, err := store.Put(context.Background(), errs)
	require.NoError(t, err)
	errs[0].Message = "mutated"

	got, err := store.Take(context.Background(), "id")
	require.NoError(t, err)
	assert.Equal(t, "bad", got[0].Message)
}

func TestMemory_Sweep(t *testing.T) {
	// Arrange
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemory(clk, uid.NewUUID(), time.Minute)
	ctx := context.Background()

	_, err := store.Put(ctx, sampleErrors)
	require.NoError(t, err)
	clk.Advance(30 * time.Second)
	fresh, err := store.Put(ctx, sampleErrors)
	require.NoError(t, err)

	// Act
	clk.Advance(45 * time.Second)
	require.NoError(t, store.Sweep(ctx))

	// Assert
	assert.Equal(t, 1, store.Len())
	got, err := store.Take(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, sampleErrors, got)
}
