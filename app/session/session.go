// Package session schedules document re-evaluation for an editor. Text
// changes are debounced and only the latest text is evaluated.
package session

import (
	"io"
	"log"
	"sync"
	"time"

	"lime/app/lang"
)

// DefaultDelay is how long a session waits after the last change before
// evaluating.
const DefaultDelay = 50 * time.Millisecond

// Result is one completed evaluation.
type Result struct {
	Text   string
	Eval   lang.EvaluationResult
	Took   time.Duration
	Serial uint64 // increases with every Schedule call
}

// Option configures a Session.
type Option func(*Session)

// WithDelay sets the debounce delay. Zero evaluates on the next tick.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLogger sets a logger for evaluation timings. Nothing is logged by
// default.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session owns an engine and serialises access to it.
type Session struct {
	mu      sync.Mutex
	engine  *lang.Engine
	delay   time.Duration
	logger  *log.Logger
	timer   *time.Timer
	pending string
	serial  uint64
	results chan Result
}

// New returns a session evaluating with engine.
func New(engine *lang.Engine, opts ...Option) *Session {
	s := &Session{
		engine:  engine,
		delay:   DefaultDelay,
		logger:  log.New(io.Discard, "", 0),
		results: make(chan Result, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Results delivers debounced evaluations. Only the newest undelivered result
// is kept.
func (s *Session) Results() <-chan Result {
	return s.results
}

// Evaluate runs an evaluation immediately and returns it.
func (s *Session) Evaluate(text string) lang.EvaluationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluate(text).Eval
}

// Schedule replaces any pending evaluation with one of text after the delay.
func (s *Session) Schedule(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serial++
	s.pending = text
	if s.timer != nil {
		s.timer.Stop()
	}
	serial := s.serial
	s.timer = time.AfterFunc(s.delay, func() { s.fire(serial) })
}

// Stop cancels a pending evaluation.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serial++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Reset clears the engine's variables.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
}

func (s *Session) fire(serial uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if serial != s.serial {
		return // superseded
	}
	s.timer = nil
	r := s.evaluate(s.pending)
	r.Serial = serial
	s.deliver(r)
}

// evaluate must be called with mu held.
func (s *Session) evaluate(text string) Result {
	start := time.Now()
	res := s.engine.EvaluateAll(text)
	took := time.Since(start)
	s.logger.Printf("evaluated %d lines in %v", len(res.Lines), took)
	return Result{Text: text, Eval: res, Took: took, Serial: s.serial}
}

// deliver replaces any unread result with r.
func (s *Session) deliver(r Result) {
	select {
	case <-s.results:
	default:
	}
	select {
	case s.results <- r:
	default:
	}
}
