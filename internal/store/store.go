// Package store persists the flat log of answered queries.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Outcome classifies how a query ended.
type Outcome string

const (
	OutcomeAnswered            Outcome = "answered"
	OutcomeNoLocation          Outcome = "no_location"
	OutcomeUpstreamUnavailable Outcome = "upstream_unavailable"
	OutcomeToolError           Outcome = "tool_error"
	OutcomeUnsupported         Outcome = "unsupported"
)

// Interaction is one logged query and the response given to it.
type Interaction struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	Timestamp     time.Time `json:"timestamp"`
	Query         string    `json:"query"`
	Response      string    `json:"response"`
	Outcome       Outcome   `json:"outcome"`
	PromptVersion string    `json:"prompt_version"`
}

var ErrInvalidInteraction = errors.New("interaction must have an id and a query")

// Log is an append-only interaction sink.
type Log interface {
	Append(ctx context.Context, in Interaction) error
	// Recent returns up to n interactions, newest first.
	Recent(ctx context.Context, n int) ([]Interaction, error)
	Close() error
}

// Kind selects a Log implementation.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindRedis  Kind = "redis"
)

// ParseKind accepts "sqlite" or "redis", case-insensitively. Empty means sqlite.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindSQLite:
		return KindSQLite, nil
	case KindRedis:
		return KindRedis, nil
	}
	return "", fmt.Errorf("unknown interaction store %q (want sqlite or redis)", s)
}

func validate(in Interaction) error {
	if in.ID == "" || in.Query == "" {
		return ErrInvalidInteraction
	}
	return nil
}
