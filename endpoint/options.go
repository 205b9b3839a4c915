package endpoint

import (
	"go.uber.org/zap"

	"github.com/wippyai/tangle/event"
)

// Observer receives every event emitted anywhere in a tree.
type Observer interface {
	OnEndpointEvent(n *Endpoint, e event.Event)
}

// Option configures a root Endpoint. Descendants share the root's settings.
type Option func(*settings)

type settings struct {
	logger    *zap.Logger
	observers []Observer
}

// WithLogger overrides the package logger for the tree.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithObserver adds a tree-wide observer.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observers = append(s.observers, o)
	}
}

func (s *settings) log() *zap.Logger {
	if s.logger != nil {
		return s.logger
	}
	return Logger()
}
