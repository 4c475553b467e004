// Package app wires the player components together: configuration, the
// transcript loader, the session state machine, the playback clock and the
// view projection.
package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"transcriptplayer/internal/clock"
	"transcriptplayer/internal/config"
	"transcriptplayer/internal/loader"
	"transcriptplayer/internal/logger"
	"transcriptplayer/internal/session"
	"transcriptplayer/internal/view"
)

// Player orchestrates one playback session from startup to teardown
type Player struct {
	config    *config.Configuration
	zapLogger *zap.Logger
	session   *session.Session
	loader    *loader.Loader
	clock     *clock.PlaybackClock
	output    *view.JSONOutput
}

// NewPlayer creates a player instance with all components initialized.
// Configuration comes from the file named by CONFIG_PATH when set, otherwise
// from environment variables
func NewPlayer() (*Player, error) {
	var cfg *config.Configuration
	var err error

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		cfg, err = config.NewConfigurationFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.NewConfigurationFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
	}

	zapLogger, err := logger.NewLogger(cfg.GetLogLevel())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return NewPlayerWithConfig(cfg, zapLogger), nil
}

// NewPlayerWithConfig creates a player from an explicit configuration and
// logger, writing the view projection to stdout
func NewPlayerWithConfig(cfg *config.Configuration, zapLogger *zap.Logger) *Player {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}

	playerSession := session.NewSessionWithLogger(
		cfg.GetMediaURL(), cfg.GetTranscriptURL(), cfg.GetMediaType(),
		logger.NewComponentLogger(zapLogger, "session"))

	transcriptLoader := loader.NewLoaderWithLogger(
		cfg.GetTranscriptURL(), cfg.GetFetchTimeout(),
		logger.NewComponentLogger(zapLogger, "loader"))
	transcriptLoader.ConfigureRetry(cfg.GetMaxRetries(), cfg.GetBaseBackoffMS())

	playbackClock := clock.NewPlaybackClockWithLogger(cfg.GetTickInterval(),
		logger.NewComponentLogger(zapLogger, "clock"))
	output := view.NewJSONOutput(os.Stdout, logger.NewComponentLogger(zapLogger, "view"))

	return &Player{
		config:    cfg,
		zapLogger: zapLogger,
		session:   playerSession,
		loader:    transcriptLoader,
		clock:     playbackClock,
		output:    output,
	}
}

// Session exposes the underlying session, mainly for inspection in tests
func (p *Player) Session() *session.Session {
	return p.session
}

// Clock exposes the built-in playback clock for transport control
func (p *Player) Clock() *clock.PlaybackClock {
	return p.clock
}

// Run starts the session loop, fires the transcript fetch, starts the clock
// and blocks until the context is cancelled
func (p *Player) Run(ctx context.Context) error {
	p.zapLogger.Info("starting transcript player",
		zap.String("session_id", p.session.ID()),
		zap.String("media_url", p.config.GetMediaURL()),
		zap.String("transcript_url", p.config.GetTranscriptURL()),
		zap.String("media_type", p.config.GetMediaType()))

	select {
	case <-ctx.Done():
		p.zapLogger.Info("context cancelled before startup, shutting down immediately")
		return nil
	default:
	}

	if err := p.session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	go p.output.ProcessUpdates(p.session.Updates())

	// Fire-and-forget transcript fetch: whatever happens, the session gets
	// exactly one terminal load event
	go func() {
		documents, err := p.loader.FetchWithRetry(ctx)
		if err != nil {
			p.session.Dispatch(session.TranscriptLoadFailed{Err: err})
			return
		}
		p.session.Dispatch(session.TranscriptLoaded{Documents: documents})
	}()

	if err := p.clock.Start(ctx); err != nil {
		return fmt.Errorf("failed to start playback clock: %w", err)
	}

	go p.forwardTicks(ctx)
	p.clock.Play()

	<-ctx.Done()
	p.zapLogger.Info("shutdown signal received, stopping player",
		zap.String("session_id", p.session.ID()))
	return nil
}

// forwardTicks bridges the clock's tick stream into session events
func (p *Player) forwardTicks(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-p.clock.Ticks():
			if !ok {
				return
			}
			p.session.Dispatch(session.ClockTick{Time: t})
		}
	}
}

// Shutdown flushes the logger; component goroutines stop with the Run context
func (p *Player) Shutdown() error {
	p.zapLogger.Info("player shutdown complete",
		zap.String("session_id", p.session.ID()))
	// Sync can fail on stdout/stderr sinks, which is harmless
	_ = p.zapLogger.Sync()
	return nil
}
