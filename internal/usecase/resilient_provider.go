package usecase

import (
	"context"
	"errors"
	"time"

	"dream-analyzer/internal/domain/entity"
	"dream-analyzer/internal/domain/repository"
	"dream-analyzer/internal/metrics"

	"github.com/sirupsen/logrus"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFailed is a non-retryable failure; Err holds the cause.
	OutcomeFailed
	// OutcomeExhausted means every attempt was rate limited.
	OutcomeExhausted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Outcome is the terminal state of one retry loop.
type Outcome struct {
	Kind     OutcomeKind
	Text     string
	Err      error
	Attempts int
}

type ResilientProvider struct {
	generator  repository.TextGenerator
	maxRetries int
	baseDelay  time.Duration
	sleep      func(time.Duration)
	metrics    *metrics.Collector
}

type ProviderOption func(*ResilientProvider)

// WithSleep replaces the blocking sleep between attempts.
func WithSleep(sleep func(time.Duration)) ProviderOption {
	return func(r *ResilientProvider) { r.sleep = sleep }
}

func WithMaxRetries(n int) ProviderOption {
	return func(r *ResilientProvider) { r.maxRetries = n }
}

func WithMetrics(c *metrics.Collector) ProviderOption {
	return func(r *ResilientProvider) { r.metrics = c }
}

func NewResilientProvider(generator repository.TextGenerator, opts ...ProviderOption) *ResilientProvider {
	r := &ResilientProvider{
		generator:  generator,
		maxRetries: 3,
		baseDelay:  time.Second,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generate runs the request until it succeeds, fails for a reason other than
// rate limiting, or runs out of attempts. Sleeps are not interruptible.
func (r *ResilientProvider) Generate(ctx context.Context, req entity.GenerationRequest) Outcome {
	start := time.Now()
	defer func() { r.metrics.ObserveGeneration(time.Since(start)) }()

	log := logrus.WithFields(logrus.Fields{
		"component": "reliability",
		"model":     req.Model,
	})

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		r.metrics.RecordAttempt(req.Model)
		text, err := r.generator.Generate(ctx, req)
		if err == nil {
			return Outcome{Kind: OutcomeSuccess, Text: text, Attempts: attempt + 1}
		}

		if !isRateLimit(err) {
			log.WithError(err).Warn("API Error")
			return Outcome{Kind: OutcomeFailed, Err: err, Attempts: attempt + 1}
		}

		r.metrics.RecordRateLimit(req.Model)
		wait := r.calculateBackoff(attempt)
		log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"wait":    wait.String(),
		}).Info("Rate limit hit, retrying")
		r.sleep(wait)
	}

	log.WithField("attempts", r.maxRetries).Warn("Rate limit retries exhausted")
	return Outcome{Kind: OutcomeExhausted, Attempts: r.maxRetries}
}

func isRateLimit(err error) bool {
	var upstream *entity.UpstreamError
	return errors.As(err, &upstream) && upstream.IsRateLimit()
}

func (r *ResilientProvider) calculateBackoff(attempt int) time.Duration {
	return r.baseDelay * time.Duration(int64(1)<<attempt)
}
