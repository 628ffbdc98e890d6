package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/inovacc/journal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	ctx := context.Background()
	dir := t.TempDir()

	bolt, err := NewBolt(filepath.Join(dir, "test.bolt"))
	require.NoError(t, err)

	lite, err := NewSQLite(ctx, filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	out := map[string]Store{
		"bolt":   bolt,
		"sqlite": lite,
		"memory": NewMemory(),
	}

	if dsn := os.Getenv("JOURNAL_TEST_POSTGRES_DSN"); dsn != "" {
		pg, err := NewPostgres(ctx, dsn)
		require.NoError(t, err)

		out["postgres"] = pg
	}

	t.Cleanup(func() {
		for name, s := range out {
			if err := s.Close(); err != nil {
				t.Logf("failed to close %s: %v", name, err)
			}
		}
	})

	return out
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Get(context.Background(), "missing-"+name)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestStore_UpdateThenGet(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := "entries-" + name

			require.NoError(t, s.Update(ctx, key, func(old []byte) ([]byte, error) {
				assert.Nil(t, old)
				return []byte("first"), nil
			}))

			require.NoError(t, s.Update(ctx, key, func(old []byte) ([]byte, error) {
				assert.Equal(t, "first", string(old))
				return append(old, "+second"...), nil
			}))

			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, "first+second", string(got))
		})
	}
}

func TestStore_UpdateAbort(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := "abort-" + name

			require.NoError(t, s.Update(ctx, key, func([]byte) ([]byte, error) {
				return []byte("kept"), nil
			}))

			err := s.Update(ctx, key, func([]byte) ([]byte, error) {
				return nil, boom
			})
			require.ErrorIs(t, err, boom)

			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, "kept", string(got))
		})
	}
}

func TestStore_ConcurrentFirstUpdate(t *testing.T) {
	ctx := context.Background()
	const writers = 8

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := fmt.Sprintf("fresh-%s-%d", name, time.Now().UnixNano())

			var wg sync.WaitGroup
			errs := make(chan error, writers)

			for range writers {
				wg.Add(1)

				go func() {
					defer wg.Done()

					errs <- s.Update(ctx, key, func(old []byte) ([]byte, error) {
						return append(old, 'x'), nil
					})
				}()
			}

			wg.Wait()
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}

			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Len(t, got, writers)
		})
	}
}

func TestStore_AbortOnFreshKey(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := fmt.Sprintf("never-%s-%d", name, time.Now().UnixNano())

			err := s.Update(ctx, key, func(old []byte) ([]byte, error) {
				assert.Nil(t, old)
				return nil, boom
			})
			require.ErrorIs(t, err, boom)

			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestStore_Ping(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Ping(context.Background()))
		})
	}
}

func TestBolt_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.bolt")

	b, err := NewBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.Update(context.Background(), "k", func([]byte) ([]byte, error) {
		return []byte("persisted"), nil
	}))
	require.NoError(t, b.Close())

	b, err = NewBolt(path)
	require.NoError(t, err)

	defer func() { _ = b.Close() }()

	got, err := b.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, model.StorageConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(ctx, model.StorageConfig{Backend: "redis"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(ctx, model.StorageConfig{Backend: "bolt"})
	assert.Error(t, err, "bolt without a path must fail")
}
