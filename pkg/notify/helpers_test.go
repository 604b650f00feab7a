package notify

import (
	"context"
	"testing"

	"github.com/example/agbado/pkg/marketplace"
	"github.com/example/agbado/pkg/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newSeededService(t *testing.T, opts ...marketplace.Option) *marketplace.Service {
	st := store.NewMemStore()
	require.NoError(t, store.Seed(context.Background(), st))
	return marketplace.NewService(st, zaptest.NewLogger(t), opts...)
}
