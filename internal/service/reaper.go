package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	obserrors "github.com/target/attractions-admin/internal/observability/errors"
	"github.com/target/attractions-admin/internal/observability/metrics"
	"github.com/target/attractions-admin/internal/observability/statsd"
	"github.com/target/attractions-admin/internal/ports"
)

// SessionReaperOptions groups dependencies for SessionReaper.
type SessionReaperOptions struct {
	Purger   ports.SessionPurger // Required
	Interval time.Duration       // Required: tick interval
	Logger   *slog.Logger        // Optional
	Metrics  statsd.Sink         // Optional
}

// SessionReaper periodically deletes expired sessions from a store that
// cannot expire them on its own.
type SessionReaper struct {
	purger   ports.SessionPurger
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink
	now      func() time.Time
}

// NewSessionReaper constructs a SessionReaper.
func NewSessionReaper(opts SessionReaperOptions) (*SessionReaper, error) {
	if opts.Purger == nil {
		return nil, errors.New("session purger is required")
	}
	if opts.Interval <= 0 {
		return nil, errors.New("reaper interval must be positive")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionReaper{
		purger:   opts.Purger,
		interval: opts.Interval,
		logger:   logger.With("component", "session_reaper"),
		metrics:  opts.Metrics,
		now:      time.Now,
	}, nil
}

// Run purges once after a short jitter, then on every tick until ctx is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (r *SessionReaper) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper", "interval", r.interval)

	// Add jitter so replicas that start together do not purge in lockstep
	r.waitWithJitter(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logPurgeError(ctx, r.PurgeOnce(ctx), "initial purge")

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "session reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			// Errors are logged and the loop keeps going.
			r.logPurgeError(ctx, r.PurgeOnce(ctx), "purge")
		}
	}
}

// PurgeOnce runs a single purge and emits its metrics.
func (r *SessionReaper) PurgeOnce(ctx context.Context) error {
	start := r.now()
	count, err := r.purger.PurgeExpired(ctx)
	r.emitMetrics(count, err, r.now().Sub(start))

	if err != nil {
		if isContextCancellation(err) {
			return context.Canceled
		}
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	if count > 0 {
		r.logger.InfoContext(ctx, "purged expired sessions", "count", count)
	}
	return nil
}

// waitWithJitter sleeps for a random delay up to 10% of the interval.
func (r *SessionReaper) waitWithJitter(ctx context.Context) {
	maxJitter := int64(r.interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		r.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func (r *SessionReaper) emitMetrics(count int64, err error, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}

	metricErr := suppressContextCancellation(err)
	result := metrics.ResultSuccess
	switch {
	case metricErr != nil:
		result = metrics.ResultError
	case err != nil:
		// Cancelled mid-purge; nothing worth reporting.
		return
	case count == 0:
		result = metrics.ResultNoop
	}

	tags := map[string]string{"result": result}
	if metricErr != nil {
		if class := obserrors.Classify(metricErr); class != "" {
			tags["error_class"] = class
		}
	}

	r.metrics.Count("reaper.purge", 1, tags)
	if elapsed > 0 {
		r.metrics.Timing("reaper.purge_duration", elapsed, metrics.CloneTags(tags))
	}
	if metricErr == nil {
		if count > 0 {
			r.metrics.Count("reaper.sessions_purged", count, nil)
		}
		r.metrics.Gauge("reaper.last_success_epoch", float64(r.now().Unix()), nil)
	}
}

func (r *SessionReaper) logPurgeError(ctx context.Context, err error, label string) {
	if err == nil {
		return
	}
	if isContextCancellation(err) {
		r.logger.DebugContext(ctx, label+" cancelled by context", "error", err)
		return
	}
	r.logger.ErrorContext(ctx, label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}
