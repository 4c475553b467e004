// Package loader retrieves and decodes the transcript document over HTTP.
// The fetch is fired once at session start; retries and the timeout happen
// here so the session only ever sees one terminal load event.
package loader

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"transcriptplayer/internal/transcript"
)

// FetchError is a transport or HTTP-layer failure retrieving the transcript
// document. It is opaque to the session beyond "failed"
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("transcript fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Loader fetches transcript documents from a configured URL
type Loader struct {
	url           string
	client        *http.Client
	logger        *zap.Logger
	maxRetries    int
	baseBackoffMs int
}

// NewLoader creates a Loader with the given overall fetch timeout
func NewLoader(url string, timeout time.Duration) *Loader {
	return NewLoaderWithLogger(url, timeout, zap.NewNop())
}

// NewLoaderWithLogger creates a Loader with a custom logger
func NewLoaderWithLogger(url string, timeout time.Duration, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		url:           url,
		client:        createFetchHTTPClient(timeout),
		logger:        logger,
		maxRetries:    3,
		baseBackoffMs: 500,
	}
}

// ConfigureRetry overrides the retry policy used by FetchWithRetry
func (l *Loader) ConfigureRetry(maxRetries, baseBackoffMs int) {
	if maxRetries >= 1 {
		l.maxRetries = maxRetries
	}
	if baseBackoffMs >= 0 {
		l.baseBackoffMs = baseBackoffMs
	}
}

// createFetchHTTPClient creates an HTTP client for a single bounded document
// fetch, with explicit connection-phase timeouts plus an overall deadline
func createFetchHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Fetch performs a single fetch-and-decode attempt. Transport and HTTP
// failures come back as *FetchError; structural problems in the payload come
// back as *transcript.DecodeError
func (l *Loader) Fetch(ctx context.Context) ([]transcript.TranscriptDocument, error) {
	l.logger.Info("fetching transcript document",
		zap.String("url", l.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		l.logger.Error("failed to create transcript request",
			zap.String("url", l.url),
			zap.Error(err))
		return nil, &FetchError{URL: l.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Error("transcript fetch failed",
			zap.String("url", l.url),
			zap.Error(err))
		return nil, &FetchError{URL: l.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.logger.Error("transcript fetch returned non-200 status",
			zap.String("url", l.url),
			zap.Int("status_code", resp.StatusCode))
		return nil, &FetchError{URL: l.url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		l.logger.Error("failed to read transcript response body",
			zap.String("url", l.url),
			zap.Error(err))
		return nil, &FetchError{URL: l.url, Err: err}
	}

	documents, err := transcript.Decode(body)
	if err != nil {
		l.logger.Error("transcript payload failed to decode",
			zap.String("url", l.url),
			zap.Error(err))
		return nil, err
	}

	l.logger.Info("transcript document fetched",
		zap.String("url", l.url),
		zap.Int("document_count", len(documents)))
	return documents, nil
}

// FetchWithRetry retries transport failures with exponential backoff. Decode
// failures are not transient and abort immediately
func (l *Loader) FetchWithRetry(ctx context.Context) ([]transcript.TranscriptDocument, error) {
	var lastErr error

	for attempt := 1; attempt <= l.maxRetries; attempt++ {
		l.logger.Info("attempting transcript fetch",
			zap.String("url", l.url),
			zap.Int("attempt", attempt))

		documents, err := l.Fetch(ctx)
		if err == nil {
			return documents, nil
		}

		if _, transient := err.(*FetchError); !transient {
			return nil, err
		}

		lastErr = err
		l.logger.Warn("transcript fetch attempt failed",
			zap.String("url", l.url),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == l.maxRetries {
			break
		}

		backoffMs := l.baseBackoffMs * (1 << (attempt - 1))
		backoff := time.Duration(backoffMs) * time.Millisecond

		l.logger.Info("waiting before transcript fetch retry",
			zap.String("url", l.url),
			zap.Duration("backoff", backoff),
			zap.Int("next_attempt", attempt+1))

		select {
		case <-ctx.Done():
			return nil, &FetchError{URL: l.url, Err: fmt.Errorf("fetch cancelled: %w (last error: %v)", ctx.Err(), lastErr)}
		case <-time.After(backoff):
		}
	}

	l.logger.Error("transcript fetch retries exhausted",
		zap.String("url", l.url),
		zap.Int("max_retries", l.maxRetries))
	return nil, lastErr
}
