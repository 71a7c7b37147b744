package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/signup/internal/models"
)

func openTestStore(t *testing.T) *SQLiteUserRepository {
	t.Helper()
	store, err := Open(MemoryPath)
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndices(context.Background()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestCreateAndFind(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, *models.NewUser("Neji", "neji@konoha.jp", "hash"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := store.FindByEmail(ctx, "neji@konoha.jp")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestFindByEmail_Missing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.FindByEmail(context.Background(), "nobody@konoha.jp")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, *models.NewUser("Neji", "neji@konoha.jp", "hash"))
	require.NoError(t, err)

	_, err = store.Create(ctx, *models.NewUser("Neji Hyuga", "neji@konoha.jp", "other"))
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestCreate_ConcurrentSameEmail(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(ctx, *models.NewUser("Tenten", "tenten@konoha.jp", "hash"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, models.ErrDuplicateEmail):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, dupes)
}

func TestFileStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signup.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndices(ctx))
	_, err = store.Create(ctx, *models.NewUser("Lee", "lee@konoha.jp", "hash"))
	require.NoError(t, err)
	require.NoError(t, store.Close(ctx))

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close(ctx)

	got, err := reopened.FindByEmail(ctx, "lee@konoha.jp")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Lee", got.Name)
}
