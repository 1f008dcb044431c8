package chat_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardianlink/backend/internal/config"
	model "github.com/guardianlink/backend/internal/model/chat"
	chat "github.com/guardianlink/backend/internal/service/chat"
)

const wallet = "0x1234567890abcdef1234567890abcdef12345678"

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store chat.Store, wallet string) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.Get(ctx, wallet)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first, err := store.Append(ctx, wallet, model.RoleUser, "I'm feeling anxious")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Timestamp.IsZero())

	_, err = store.Append(ctx, wallet, model.RoleAssistant, "You are not alone.")
	require.NoError(t, err)
	_, err = store.Append(ctx, wallet+"-other", model.RoleUser, "unrelated")
	require.NoError(t, err)

	history, err := store.Get(ctx, wallet)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, "I'm feeling anxious", history[0].Content)
	assert.Equal(t, model.RoleAssistant, history[1].Role)
	assert.Equal(t, "You are not alone.", history[1].Content)

	_, err = store.Append(ctx, "", model.RoleUser, "x")
	assert.ErrorIs(t, err, chat.ErrIdentityRequired)
	_, err = store.Append(ctx, wallet, model.Role("ai"), "x")
	assert.ErrorIs(t, err, chat.ErrInvalidRole)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, chat.NewMemoryStore(), wallet)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := chat.NewMemoryStore()
	_, err := store.Append(ctx, wallet, model.RoleUser, "hello")
	require.NoError(t, err)

	history, err := store.Get(ctx, wallet)
	require.NoError(t, err)
	history[0].Content = "mutated"

	again, err := store.Get(ctx, wallet)
	require.NoError(t, err)
	assert.Equal(t, "hello", again[0].Content)
}

func TestSQLiteStore(t *testing.T) {
	store, err := chat.NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store, wallet)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := chat.NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = store.Append(ctx, wallet, model.RoleUser, "persisted")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := chat.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	history, err := reopened.Get(ctx, wallet)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "persisted", history[0].Content)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	exerciseStore(t, chat.NewRedisStoreWithClient(client), wallet)

	items, err := mr.List("guardianlink:chat:" + wallet)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRedisStoreConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := chat.NewRedisStore(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Append(context.Background(), wallet, model.RoleUser, "hi")
	require.NoError(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("HISTORY_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("HISTORY_TEST_DATABASE_URL not set")
	}

	store, err := chat.NewPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store, fmt.Sprintf("0xtest-%d", time.Now().UnixNano()))
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	mem, err := chat.Open(ctx, config.StoreConfig{Backend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &chat.MemoryStore{}, mem)

	lite, err := chat.Open(ctx, config.StoreConfig{Backend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "h.db")})
	require.NoError(t, err)
	assert.IsType(t, &chat.SQLiteStore{}, lite)
	require.NoError(t, lite.(*chat.SQLiteStore).Close())

	mr := miniredis.RunT(t)
	rs, err := chat.Open(ctx, config.StoreConfig{Backend: config.BackendRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &chat.RedisStore{}, rs)
	require.NoError(t, rs.(*chat.RedisStore).Close())

	_, err = chat.Open(ctx, config.StoreConfig{Backend: "mongo"})
	assert.Error(t, err)
}
