package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const defaultRecorderBuffer = 256

// Recorder is a write-behind front for an AuditStore. Record never blocks:
// when the buffer is full the entry is dropped and counted.
type Recorder struct {
	store   AuditStore
	entries chan AuditEntry
	dropped atomic.Uint64
	log     *zerolog.Logger
}

// NewRecorder builds a recorder; call Run to start persisting.
func NewRecorder(st AuditStore, buffer int, logger *zerolog.Logger) *Recorder {
	if buffer <= 0 {
		buffer = defaultRecorderBuffer
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Recorder{
		store:   st,
		entries: make(chan AuditEntry, buffer),
		log:     logger,
	}
}

// Record queues an entry. Safe on a nil receiver.
func (r *Recorder) Record(entry AuditEntry) {
	if r == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	select {
	case r.entries <- entry:
	default:
		r.dropped.Add(1)
	}
}

// Dropped reports how many entries were discarded because the buffer was full.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Store exposes the backing store for read access.
func (r *Recorder) Store() AuditStore {
	return r.store
}

// Run persists queued entries until ctx is cancelled, then flushes what is
// already buffered.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case entry := <-r.entries:
			r.write(context.Background(), entry)
		case <-ctx.Done():
			r.flush()
			if n := r.Dropped(); n > 0 {
				r.log.Warn().Uint64("dropped", n).Msg("audit entries dropped")
			}
			return nil
		}
	}
}

func (r *Recorder) flush() {
	for {
		select {
		case entry := <-r.entries:
			r.write(context.Background(), entry)
		default:
			return
		}
	}
}

func (r *Recorder) write(ctx context.Context, entry AuditEntry) {
	if err := r.store.AppendAudit(ctx, &entry); err != nil {
		r.log.Warn().Err(err).Str("kind", string(entry.Kind)).Msg("failed to persist audit entry")
	}
}
