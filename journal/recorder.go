package journal

import (
	"context"
	"reflect"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	eventaggregator "github.com/stofte/event-aggregator-listener"
)

var (
	_ eventaggregator.Listener[struct{}] = (*Recorder[struct{}])(nil)
	_ eventaggregator.Registrar          = (*Recorder[struct{}])(nil)
	_ Streamer                           = (*Recorder[struct{}])(nil)
)

// Streamer is implemented by recorders of any event type
type Streamer interface {
	Stream() string
}

// RecorderCfg represents recorder configuration (configure using RecorderOpt)
type RecorderCfg struct {
	stream     string
	timeout    time.Duration
	maxRetries uint64
}

// RecorderOpt represents recorder configuration option
type RecorderOpt func(RecorderCfg) RecorderCfg

// WithStream overrides the stream events are appended to
func WithStream(name string) RecorderOpt {
	return func(cfg RecorderCfg) RecorderCfg {
		cfg.stream = name

		return cfg
	}
}

// WithTimeout bounds the time a single OnEvent call may spend
// talking to the database, retries included
func WithTimeout(d time.Duration) RecorderOpt {
	return func(cfg RecorderCfg) RecorderCfg {
		cfg.timeout = d

		return cfg
	}
}

// WithMaxRetries sets how many times a conflicting append is retried
func WithMaxRetries(n uint64) RecorderOpt {
	return func(cfg RecorderCfg) RecorderCfg {
		cfg.maxRetries = n

		return cfg
	}
}

// NewRecorder constructs a listener that appends every T it receives to j.
// By default the stream is named after T.
func NewRecorder[T any](j *Journal, opts ...RecorderOpt) *Recorder[T] {
	cfg := RecorderCfg{
		stream:     reflect.TypeFor[T]().String(),
		timeout:    5 * time.Second,
		maxRetries: 5,
	}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return &Recorder[T]{
		journal: j,
		cfg:     cfg,
	}
}

// Recorder is an aggregator listener that journals the events it receives
type Recorder[T any] struct {
	journal *Journal
	cfg     RecorderCfg
}

// Stream returns the name of the stream events are appended to
func (r *Recorder[T]) Stream() string { return r.cfg.stream }

// Register subscribes the recorder for T on a
func (r *Recorder[T]) Register(a *eventaggregator.Aggregator) error {
	return eventaggregator.Subscribe[T](a, r)
}

// OnEvent appends event at the end of the recorder's stream. Concurrent
// recorders writing the same stream can race for a version; the loser
// re-reads the stream version and tries again with backoff.
func (r *Recorder[T]) OnEvent(event T) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.timeout)
	defer cancel()

	entries := []Entry{{Event: event}}

	op := func() error {
		ver, err := r.journal.Version(ctx, r.cfg.stream)
		if err != nil {
			return backoff.Permanent(err)
		}

		err = r.journal.Append(ctx, r.cfg.stream, ver, entries)
		if errors.Is(err, ErrConcurrencyCheckFailed) {
			return err
		}

		if err != nil {
			return backoff.Permanent(err)
		}

		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, r.cfg.maxRetries), ctx))
	if err != nil {
		return errors.Wrapf(err, "journal: record %s", r.cfg.stream)
	}

	return nil
}
