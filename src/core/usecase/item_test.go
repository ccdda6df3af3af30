package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpashop/src/core/domain"
)

func TestItemCreateAndUpdate(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	ctx := context.Background()

	item, err := f.items.Create(ctx, "JPA1 BOOK", 10000, 5)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)

	updated, err := f.items.Update(ctx, item.ID, "JPA1 BOOK 2nd ed", 12000, 8)
	require.NoError(t, err)
	assert.Equal(t, "JPA1 BOOK 2nd ed", updated.Name)

	got, err := f.items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 12000, got.Price)
	assert.Equal(t, 8, got.StockQuantity)

	all, err := f.items.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestItemValidation(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	ctx := context.Background()

	_, err := f.items.Create(ctx, "", 10, 1)
	assert.True(t, domain.IsValidationError(err))
	_, err = f.items.Create(ctx, "pen", -1, 1)
	assert.True(t, domain.IsValidationError(err))
	_, err = f.items.Create(ctx, "pen", 10, -1)
	assert.True(t, domain.IsValidationError(err))

	_, err = f.items.Update(ctx, 9999, "pen", 10, 1)
	assert.True(t, domain.IsNotFound(err))

	item, err := f.items.Create(ctx, "pen", 10, 1)
	require.NoError(t, err)
	_, err = f.items.Update(ctx, item.ID, "pen", 10, -5)
	assert.True(t, domain.IsValidationError(err))
}
