package repository

import (
	"context"
	"testing"

	"github.com/example/agbado/pkg/store"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) *store.MemStore {
	st := store.NewMemStore()
	require.NoError(t, store.Seed(context.Background(), st))
	return st
}
