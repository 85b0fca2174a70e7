package session

import (
	"sync"

	"lime/app/lang"

	"golang.org/x/text/language"
)

// Pool keeps one Session per message language, created on first use.
type Pool struct {
	mu       sync.Mutex
	opts     []Option
	sessions map[language.Tag]*Session
}

// NewPool returns an empty pool whose sessions are built with opts.
func NewPool(opts ...Option) *Pool {
	return &Pool{opts: opts, sessions: make(map[language.Tag]*Session)}
}

// Get returns the session for tag, creating it if needed.
func (p *Pool) Get(tag language.Tag) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[tag]; ok {
		return s
	}
	s := New(lang.NewEngine(lang.WithLanguage(tag)), p.opts...)
	p.sessions[tag] = s
	return s
}
