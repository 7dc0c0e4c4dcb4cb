package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marks any completion-endpoint failure; callers convert it at
// the adapter boundary instead of letting upstream flakiness corrupt data.
var ErrUnavailable = errors.New("ai provider unavailable")

type Provider interface {
	Name() string
	// Chat sends a single-turn exchange with a fixed system instruction and
	// returns the completion text.
	Chat(ctx context.Context, model, system, prompt string) (string, error)
}

type Factory func(args interface{}) (Provider, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}
