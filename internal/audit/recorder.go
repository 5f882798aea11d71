package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher fans attempt events out to an external sink (Kafka). Optional;
// publish failures follow the same drop-and-log policy as store failures.
type Publisher interface {
	Publish(ctx context.Context, attempt Attempt) error
}

// Recorder accepts attempt records from the request path and persists them in
// the background. Record never blocks and never returns an error to the
// caller; persistence failures are routed to the operational log only, so a
// slow or failing store cannot alter a verification decision already made.
type Recorder struct {
	store     Store
	publisher Publisher
	inbox     chan Attempt
	logger    *slog.Logger

	writeTimeout time.Duration
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithPublisher attaches an external event sink.
func WithPublisher(p Publisher) Option {
	return func(r *Recorder) { r.publisher = p }
}

// WithBufferSize overrides the inbox capacity.
func WithBufferSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.inbox = make(chan Attempt, n)
		}
	}
}

// NewRecorder builds a recorder writing to store. Run must be started on its
// own goroutine before records flow.
func NewRecorder(store Store, logger *slog.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		store:        store,
		inbox:        make(chan Attempt, 256),
		logger:       logger,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record enqueues one attempt, stamping identity and time if unset. When the
// inbox is full the attempt is dropped and logged rather than blocking the
// request path.
func (r *Recorder) Record(attempt Attempt) {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now().UTC()
	}

	select {
	case r.inbox <- attempt:
	default:
		r.logger.Error("audit inbox full, dropping attempt record",
			"attempt_id", attempt.ID,
			"user_id", attempt.UserID,
		)
	}
}

// Run consumes the inbox until ctx is cancelled, then drains whatever was
// already dispatched so accepted records still reach the store (best-effort).
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return
		case attempt := <-r.inbox:
			r.persist(attempt)
		}
	}
}

// persist writes one record with its own timeout, detached from any request
// context so a disconnected client cannot cancel an audit write.
func (r *Recorder) persist(attempt Attempt) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.store.Append(ctx, attempt); err != nil {
		r.logger.Error("audit write failed",
			"attempt_id", attempt.ID,
			"user_id", attempt.UserID,
			"error", err,
		)
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, attempt); err != nil {
			r.logger.Error("audit publish failed",
				"attempt_id", attempt.ID,
				"user_id", attempt.UserID,
				"error", err,
			)
		}
	}
}

func (r *Recorder) drain() {
	for {
		select {
		case attempt := <-r.inbox:
			r.persist(attempt)
		default:
			return
		}
	}
}
