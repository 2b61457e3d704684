package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/cache"
	"github.com/oggyb/matchmaker/internal/config"
	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/repository"
	"github.com/oggyb/matchmaker/internal/server"
)

type testEnv struct {
	router http.Handler
	gdb    *gorm.DB
	appCtx *app.AppContext
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	appCtx := app.New(gdb, cache.NewRedisCache(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &testEnv{
		router: server.NewRouter(cfg, appCtx),
		gdb:    gdb,
		appCtx: appCtx,
	}
}

func (e *testEnv) seedPair(t *testing.T) {
	t.Helper()
	for id, gender := range map[uint64]string{1: "male", 2: "female"} {
		require.NoError(t, e.gdb.Create(&db.Profile{ID: id, Age: 30, Gender: gender, Location: "London"}).Error)
		require.NoError(t, e.gdb.Create(&db.InterestRecord{UserID: id, FavoriteMovie: "Dark"}).Error)
		require.NoError(t, e.gdb.Create(&db.PreferenceRecord{UserID: id, SpokenLanguages: db.StringList{"en"}}).Error)
	}
}

func (e *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRecompute_ProcessesQueue(t *testing.T) {
	env := setupEnv(t)
	env.seedPair(t)
	queue := repository.NewQueueRepository(env.gdb)
	require.NoError(t, queue.Enqueue(context.Background(), 1))
	require.NoError(t, queue.Enqueue(context.Background(), 2))

	rec := env.do(t, http.MethodPost, "/internal/recompute?batch=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK        bool   `json:"ok"`
		Processed int    `json:"processed"`
		LockID    string `json:"lockId"`
		ElapsedMs int64  `json:"elapsedMs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 2, resp.Processed)
	assert.NotEmpty(t, resp.LockID)
	assert.GreaterOrEqual(t, resp.ElapsedMs, int64(0))

	// immediate rerun on the same queue state processes nothing
	rec = env.do(t, http.MethodPost, "/internal/recompute")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 0, resp.Processed)
}

func TestRecompute_MethodAgnostic(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/internal/recompute")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecompute_SetupFailureReturns500(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.gdb.Migrator().DropTable(&db.QueueJob{}))

	rec := env.do(t, http.MethodPost, "/internal/recompute")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Error string `json:"error"`
		Step  string `json:"step"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, "claim_queue", resp.Step)
}

func TestListRecommendations_CacheFirst(t *testing.T) {
	env := setupEnv(t)
	env.seedPair(t)
	queue := repository.NewQueueRepository(env.gdb)
	require.NoError(t, queue.Enqueue(context.Background(), 1))

	rec := env.do(t, http.MethodPost, "/internal/recompute")
	require.Equal(t, http.StatusOK, rec.Code)

	// first read misses the cache and fills it
	rec = env.do(t, http.MethodGet, "/users/1/recommendations")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UserID          uint64 `json:"user_id"`
		Recommendations []struct {
			RecommendedUserID uint64 `json:"recommended_user_id"`
			Score             int    `json:"score"`
			Reasons           struct {
				Algorithm string `json:"algorithm"`
			} `json:"reasons"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, uint64(2), resp.Recommendations[0].RecommendedUserID)
	assert.NotEmpty(t, resp.Recommendations[0].Reasons.Algorithm)

	cached, err := env.appCtx.RedisCache.Get(context.Background(), env.appCtx.RedisCache.KeyForRecommendations(1))
	require.NoError(t, err)
	assert.NotEmpty(t, cached)

	// second read is served from the cache
	rec = env.do(t, http.MethodGet, "/users/1/recommendations")
	require.Equal(t, http.StatusOK, rec.Code)
	var second struct {
		Recommendations []json.RawMessage `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Len(t, second.Recommendations, 1)
}

func TestListRecommendations_BadID(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/users/abc/recommendations")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
