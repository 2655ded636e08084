//go:build integration

package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/redkeep/pkg/store"
)

const testStoreURL = "redis://localhost:6379/0"

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	url := os.Getenv("REDKEEP_URL")
	if url == "" {
		url = testStoreURL
	}

	ctx := context.Background()
	s, err := store.New(ctx, url, store.WithDialTimeout(2*time.Second))
	require.NoError(t, err, "failed to connect to store")

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestIntegration_Roundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	key := fmt.Sprintf("redkeep-test:roundtrip:%d", time.Now().UnixNano())

	type payload struct {
		N int `json:"n"`
	}

	require.NoError(t, s.Set(ctx, key, payload{N: 1}))
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	data, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":1}`, string(data))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestIntegration_SetIfAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	key := fmt.Sprintf("redkeep-test:nx:%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	ok, err := s.SetIfAbsent(ctx, key, "first")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.SetIfAbsent(ctx, key, "second")
	require.NoError(t, err)
	require.False(t, ok)

	data, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, `"first"`, string(data))
}

func TestIntegration_Scan(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	prefix := fmt.Sprintf("redkeep-test:scan:%d", time.Now().UnixNano())
	for i := range 5 {
		key := fmt.Sprintf("%s:%d", prefix, i)
		require.NoError(t, s.Set(ctx, key, i))
		t.Cleanup(func() { _ = s.Delete(context.Background(), key) })
	}

	var values []string
	for data, err := range s.Scan(ctx, prefix+":*") {
		require.NoError(t, err)
		values = append(values, string(data))
	}
	require.ElementsMatch(t, []string{"0", "1", "2", "3", "4"}, values)
}

func TestIntegration_Healthcheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Healthcheck()(ctx))
}
