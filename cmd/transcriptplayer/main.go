package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"transcriptplayer/internal/app"
)

// main is the player entry point
func main() {
	var (
		helpFlag    = flag.Bool("help", false, "Show help message")
		versionFlag = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *helpFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	if err := runApplication(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// runApplication contains the core application logic that can be tested
func runApplication() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Transcript Player starting up",
		zap.String("component", "main"),
		zap.String("version", "1.0"))

	player, err := app.NewPlayer()
	if err != nil {
		logger.Error("Failed to create player",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("failed to create player: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
			zap.String("component", "main"))
		cancel()
	}()

	if err := player.Run(ctx); err != nil {
		logger.Error("Player runtime error",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("player runtime error: %w", err)
	}

	if err := player.Shutdown(); err != nil {
		logger.Error("Error during player shutdown",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("player shutdown error: %w", err)
	}

	logger.Info("Transcript Player stopped successfully",
		zap.String("component", "main"))
	return nil
}

// printHelp displays command line usage information
func printHelp() {
	fmt.Println("Transcript Player - Transcript-Synchronized Audio Playback")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    transcriptplayer [OPTIONS]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    -help      Show this help message")
	fmt.Println("    -version   Show version information")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("    Configuration is loaded from the file named by CONFIG_PATH,")
	fmt.Println("    or from environment variables when CONFIG_PATH is unset:")
	fmt.Println("        MEDIA_URL         audio source location")
	fmt.Println("        TRANSCRIPT_URL    transcript document location")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    TRANSCRIPT_URL=https://example.com/tasks/1 transcriptplayer")
	fmt.Println("    CONFIG_PATH=./config.yaml transcriptplayer")
}

// printVersion displays version and build information
func printVersion() {
	fmt.Println("Transcript Player")
	fmt.Println("Version: 1.0")
	fmt.Println("Architecture: Go 1.24, event-driven playback synchronizer")
}
