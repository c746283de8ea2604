package typing

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/observe"
)

// ErrSessionClosed is returned once the session goroutine has stopped.
var ErrSessionClosed = errors.New("typing session closed")

type frameRequest struct {
	hand  *detector.HandLandmarks
	reply chan Status
}

type editRequest struct {
	op    EditOp
	reply chan editResult
}

type editResult struct {
	status Status
	err    error
}

// Session confines an Engine to a single goroutine. Frames and edits are
// handed to that goroutine over channels and processed strictly one at a
// time; callers block until their request has been applied.
type Session struct {
	engine  *Engine
	metrics *observe.Metrics

	frames chan frameRequest
	edits  chan editRequest
	done   chan struct{}
	once   sync.Once

	mu        sync.RWMutex
	status    Status
	listeners []func(Status)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMetrics records frame, commit and edit metrics.
func WithMetrics(m *observe.Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// NewSession wraps engine. The session does nothing until Run is called.
func NewSession(engine *Engine, opts ...SessionOption) *Session {
	s := &Session{
		engine: engine,
		frames: make(chan frameRequest),
		edits:  make(chan editRequest),
		done:   make(chan struct{}),
		status: engine.Status(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run owns the engine until ctx is cancelled. It returns nil on
// cancellation. Run must be called at most once.
func (s *Session) Run(ctx context.Context) error {
	defer s.once.Do(func() { close(s.done) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-s.frames:
			req.reply <- s.step(ctx, req.hand)
		case req := <-s.edits:
			st, err := s.engine.Apply(req.op)
			if err == nil {
				s.publish(st)
				if s.metrics != nil {
					s.metrics.RecordEdit(ctx, string(req.op))
				}
				slog.Debug("text edited", "op", req.op, "text", st.Text)
			}
			req.reply <- editResult{status: st, err: err}
		}
	}
}

func (s *Session) step(ctx context.Context, hand *detector.HandLandmarks) Status {
	start := time.Now()
	st := s.engine.Step(hand)
	s.publish(st)

	if st.Committed != "" {
		slog.Info("symbol committed", "symbol", st.Committed, "text", st.Text)
	}
	if st.AutoSpace {
		slog.Debug("auto space on hand loss")
	}

	if s.metrics != nil {
		s.metrics.RecordFrame(ctx, st.Present, time.Since(start))
		if st.Committed != "" {
			s.metrics.RecordCommit(ctx, string(st.Committed))
			if st.Committed.IsWord() {
				s.metrics.WaveWords.Add(ctx, 1)
			}
		}
		if st.AutoSpace {
			s.metrics.AutoSpaces.Add(ctx, 1)
		}
	}
	return st
}

func (s *Session) publish(st Status) {
	s.mu.Lock()
	s.status = st
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}

// Submit hands one frame's detection result to the session and waits for
// the resulting status. hand may be nil when no hand was found.
func (s *Session) Submit(ctx context.Context, hand *detector.HandLandmarks) (Status, error) {
	req := frameRequest{hand: hand, reply: make(chan Status, 1)}
	select {
	case s.frames <- req:
	case <-s.done:
		return Status{}, ErrSessionClosed
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
	return <-req.reply, nil
}

// Edit applies an external text edit.
func (s *Session) Edit(ctx context.Context, op EditOp) (Status, error) {
	req := editRequest{op: op, reply: make(chan editResult, 1)}
	select {
	case s.edits <- req:
	case <-s.done:
		return Status{}, ErrSessionClosed
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
	res := <-req.reply
	return res.status, res.err
}

// Status returns the latest published status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// OnStatus registers fn to receive every status, in order, from the session
// goroutine. fn must not call Submit or Edit.
func (s *Session) OnStatus(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners[:len(s.listeners):len(s.listeners)], fn)
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }
