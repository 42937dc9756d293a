package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sony/gobreaker"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
)

// Config tunes the source downloader.
type Config struct {
	Timeout  time.Duration
	MaxBytes int64
	// MaxFailures consecutive origin failures open the breaker for Cooldown.
	MaxFailures uint32
	Cooldown    time.Duration
	Client      *http.Client
}

type httpFetcher struct {
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
	timeout  time.Duration
	maxBytes int64
}

var _ port.SourceFetcher = (*httpFetcher)(nil)

// NewHTTPFetcher downloads sources over HTTP(S). It never retries: a failed
// download is reported and the caller decides.
func NewHTTPFetcher(cfg Config) port.SourceFetcher {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	st := gobreaker.Settings{
		Name:        "source-fetch",
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnf(context.Background(), "⚠️  circuit breaker %q: %s -> %s", name, from, to)
		},
	}

	return &httpFetcher{
		client:   client,
		cb:       gobreaker.NewCircuitBreaker(st),
		timeout:  cfg.Timeout,
		maxBytes: cfg.MaxBytes,
	}
}

type fetchResult struct {
	status   int
	body     []byte
	tooLarge bool
}

// FetchSource downloads url into memory and checks it holds audio or video.
func (f *httpFetcher) FetchSource(ctx context.Context, url string) ([]byte, error) {
	logger.Infof(ctx, "downloading source video %q...", url)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	out, err := f.cb.Execute(func() (interface{}, error) {
		return f.fetch(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: source origin unavailable: %v", video.ErrNetwork, err)
		}
		return nil, err
	}

	res := out.(*fetchResult)
	if res.tooLarge {
		return nil, fmt.Errorf("%w: source exceeds %d bytes", video.ErrUnsupportedSource, f.maxBytes)
	}
	if res.status < 200 || res.status > 299 {
		return nil, fmt.Errorf("%w: GET %s returned %d", video.ErrNetwork, url, res.status)
	}
	if len(res.body) == 0 {
		return nil, fmt.Errorf("%w: empty response body", video.ErrUnsupportedSource)
	}
	if mt := mimetype.Detect(res.body); !isPlayable(mt) {
		return nil, fmt.Errorf("%w: detected %s", video.ErrUnsupportedSource, mt.String())
	}
	return res.body, nil
}

// fetch only fails for transport errors and 5xx answers; those are the
// conditions that count against the breaker.
func (f *httpFetcher) fetch(ctx context.Context, url string) (*fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", video.ErrNetwork, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", video.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: GET %s returned %d", video.ErrNetwork, url, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &fetchResult{status: resp.StatusCode}, nil
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return &fetchResult{status: resp.StatusCode, tooLarge: true}, nil
	}

	var r io.Reader = resp.Body
	if f.maxBytes > 0 {
		r = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", video.ErrNetwork, err)
	}
	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		return &fetchResult{status: resp.StatusCode, tooLarge: true}, nil
	}
	return &fetchResult{status: resp.StatusCode, body: body}, nil
}

func isPlayable(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		s := m.String()
		if strings.HasPrefix(s, "video/") || strings.HasPrefix(s, "audio/") {
			return true
		}
	}
	return false
}
