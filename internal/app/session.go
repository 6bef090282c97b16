package app

import (
	"context"
	"sync"
)

// Session owns an Engine and serializes every access to it on one goroutine.
// Adapters that serve concurrent requests talk to the engine through a Session.
type Session struct {
	engine *Engine
	calls  chan func(*Engine)
	done   chan struct{}
	once   sync.Once
}

// NewSession starts the session goroutine around engine.
func NewSession(engine *Engine) *Session {
	s := &Session{
		engine: engine,
		calls:  make(chan func(*Engine)),
		done:   make(chan struct{}),
	}
	go s.loop()
	return s
}

// loop runs queued calls until Close.
func (s *Session) loop() {
	for {
		select {
		case fn := <-s.calls:
			fn(s.engine)
		case <-s.done:
			return
		}
	}
}

// Do runs fn against the engine and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func(*Engine) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	result := make(chan error, 1)
	call := func(e *Engine) {
		result <- fn(e)
	}
	select {
	case s.calls <- call:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the session and destroys the engine.
func (s *Session) Close() {
	s.once.Do(func() {
		_ = s.Do(context.Background(), func(e *Engine) error {
			e.Destroy()
			return nil
		})
		close(s.done)
	})
}
