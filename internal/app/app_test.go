// ABOUTME: Tests for component wiring
// ABOUTME: Covers optional backends and end-to-end chat through the router
package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/harper/plant-texts/internal/chat"
	"github.com/harper/plant-texts/internal/config"
	"github.com/harper/plant-texts/internal/evaluation"
	"github.com/harper/plant-texts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		DBPath:          InMemoryDB,
		LogLevel:        "info",
		ChatModel:       "gpt-4o-mini",
		Timeout:         time.Second,
		MaxAttempts:     3,
		MaxTokens:       180,
		HistoryWindow:   10,
		NATSSubject:     "planttexts.interactions",
		EvalMaxInFlight: 8,
		EvalTimeout:     time.Second,
	}
}

func seed(t *testing.T, a *App) *models.Plant {
	t.Helper()
	ctx := context.Background()
	user, err := models.NewUser("Lin", "")
	require.NoError(t, err)
	require.NoError(t, a.Storage.CreateUser(ctx, user))
	plant, err := models.NewPlant(user.UserID, "Drama Queen", "calathea", "dramatic")
	require.NoError(t, err)
	require.NoError(t, a.Storage.CreatePlant(ctx, plant))
	return plant
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = NewLogger("shouty")
	assert.Error(t, err)
}

func TestNew_TemplateOnly(t *testing.T) {
	a, err := New(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Close(context.Background())) }()

	assert.Nil(t, a.Chat.Cache)
	assert.Empty(t, a.Chat.Model)

	plant := seed(t, a)
	reply, err := a.Chat.Chat(context.Background(), plant.PlantID, "hello!")
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.True(t, strings.HasSuffix(reply.ResponseText, chat.FallbackMarker))
	assert.Equal(t, "dramatic", reply.PersonalityType)
}

func TestNew_BadPersonalityFile(t *testing.T) {
	cfg := testConfig()
	cfg.PersonalityFile = "/nonexistent/personalities.yaml"
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNew_UnreachableBackendsAreSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	cfg.NATSURL = "nats://127.0.0.1:1"

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.Nil(t, a.Chat.Cache)
}

func TestNew_WiresCacheAndEvaluationSink(t *testing.T) {
	mr := miniredis.RunT(t)

	var (
		mu      sync.Mutex
		records []evaluation.Record
	)
	eval := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Events []evaluation.Record `json:"events"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			mu.Lock()
			records = append(records, payload.Events...)
			mu.Unlock()
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer eval.Close()

	cfg := testConfig()
	cfg.RedisURL = "redis://" + mr.Addr() + "/0"
	cfg.EvalURL = eval.URL
	cfg.EvalProjectID = "proj_test"

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, a.Chat.Cache)

	plant := seed(t, a)
	for _, msg := range []string{"good morning", "are you thirsty?"} {
		_, err := a.Chat.Chat(context.Background(), plant.PlantID, msg)
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Close(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, "dramatic", rec.PersonalityType)
		assert.NotEmpty(t, rec.Output)
	}

	assert.True(t, mr.Exists("planttexts:history:"+plant.PlantID))
}

func TestRouterServesHealth(t *testing.T) {
	a, err := New(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	defer a.Close(context.Background())

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
