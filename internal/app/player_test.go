package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"transcriptplayer/internal/config"
	"transcriptplayer/internal/session"
)

const testPayload = `[
	{
		"status": "done",
		"taskId": "task-1",
		"taskUrl": "https://transcripts.example.com/tasks/1",
		"result": {
			"engine": "whisper",
			"language": "en",
			"filename": "episode.mp3",
			"transcripts": [
				{
					"speaker": "A",
					"stime": 0,
					"duration": 600,
					"content": "hi",
					"bookmarks": "",
					"wordChunks": [
						{"stime": 0, "duration": 600, "content": "hi", "confidence": 0.9}
					]
				}
			]
		}
	}
]`

func envConfig(t *testing.T, transcriptURL string) *config.Configuration {
	t.Helper()
	os.Setenv("TRANSCRIPT_URL", transcriptURL)
	os.Setenv("MEDIA_URL", "https://media.example.com/episode.mp3")
	os.Setenv("CLOCK_TICK_INTERVAL_MS", "20")
	t.Cleanup(func() {
		os.Unsetenv("TRANSCRIPT_URL")
		os.Unsetenv("MEDIA_URL")
		os.Unsetenv("CLOCK_TICK_INTERVAL_MS")
	})

	cfg, err := config.NewConfigurationFromEnv()
	require.NoError(t, err)
	return cfg
}

func TestNewPlayer_FromEnvironment(t *testing.T) {
	// Arrange
	os.Unsetenv("CONFIG_PATH")

	// Act
	player, err := NewPlayer()

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, player)
	assert.NotNil(t, player.Session())
	assert.NotNil(t, player.Clock())
}

func TestNewPlayer_InvalidLogLevel(t *testing.T) {
	// Arrange
	os.Unsetenv("CONFIG_PATH")
	os.Setenv("LOG_LEVEL", "chatty")
	defer os.Unsetenv("LOG_LEVEL")

	// Act
	player, err := NewPlayer()

	// Assert
	assert.Error(t, err)
	assert.Nil(t, player)
	assert.Contains(t, err.Error(), "failed to create logger")
}

func TestNewPlayer_FromConfigFile(t *testing.T) {
	t.Run("should fail on missing config file", func(t *testing.T) {
		// Arrange
		os.Setenv("CONFIG_PATH", "/tmp/does-not-exist-player.yaml")
		defer os.Unsetenv("CONFIG_PATH")

		// Act
		player, err := NewPlayer()

		// Assert
		assert.Error(t, err)
		assert.Nil(t, player)
	})
}

func TestPlayer_Run_CancelledContext(t *testing.T) {
	// Arrange
	cfg := envConfig(t, "https://transcripts.example.com/tasks/1")
	player := NewPlayerWithConfig(cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	err := player.Run(ctx)

	// Assert - immediate graceful shutdown
	assert.NoError(t, err)
}

func TestPlayer_Run_LoadsTranscriptAndResolves(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testPayload))
	}))
	defer server.Close()

	cfg := envConfig(t, server.URL)
	player := NewPlayerWithConfig(cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- player.Run(ctx) }()

	// Act - wait until the session reaches Ready and resolves the segment
	var snapshot session.SyncState
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		snapshot = player.Session().Snapshot()
		if snapshot.State == session.StateReady && snapshot.ActiveSegment != nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	// Assert
	require.Equal(t, session.StateReady, snapshot.State)
	require.NotNil(t, snapshot.ActiveSegment)
	assert.Equal(t, "A", snapshot.ActiveSegment.Speaker)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("player did not shut down after cancellation")
	}

	assert.NoError(t, player.Shutdown())
}

func TestPlayer_Run_FetchFailureKeepsPlaying(t *testing.T) {
	// Arrange - transcript endpoint always fails; the player must keep
	// ticking as a plain audio clock
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := envConfig(t, server.URL)
	os.Setenv("TRANSCRIPT_MAX_RETRIES", "1")
	defer os.Unsetenv("TRANSCRIPT_MAX_RETRIES")
	cfg, err := config.NewConfigurationFromEnv()
	require.NoError(t, err)

	player := NewPlayerWithConfig(cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- player.Run(ctx) }()

	// Act - wait for time to advance while the state stays awaiting
	var snapshot session.SyncState
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		snapshot = player.Session().Snapshot()
		if snapshot.CurrentTime > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	// Assert
	assert.Greater(t, snapshot.CurrentTime, 0.0)
	assert.Equal(t, session.StateAwaitingTranscript, snapshot.State)
	assert.Nil(t, snapshot.ActiveSegment)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("player did not shut down after cancellation")
	}
}
