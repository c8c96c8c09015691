package service

import (
	"context"
	"log"
	"time"

	"imagequery/internal/port"
)

// SessionJanitorConfig holds settings for idle session sweeping.
type SessionJanitorConfig struct {
	SweepInterval time.Duration
	IdleTTL       time.Duration
}

// SessionJanitor drops page sessions that have gone idle.
type SessionJanitor struct {
	sessions port.SessionStore
	cfg      SessionJanitorConfig
}

// NewSessionJanitor creates a new SessionJanitor.
func NewSessionJanitor(sessions port.SessionStore, cfg SessionJanitorConfig) *SessionJanitor {
	return &SessionJanitor{sessions: sessions, cfg: cfg}
}

// Start runs the sweep loop until ctx is canceled.
func (j *SessionJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.SweepInterval)
	defer ticker.Stop()

	log.Printf("sessionJanitor: started (interval=%s, idle_ttl=%s)", j.cfg.SweepInterval, j.cfg.IdleTTL)

	for {
		select {
		case <-ctx.Done():
			log.Printf("sessionJanitor: shutdown complete")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep removes idle sessions once and returns how many were dropped.
func (j *SessionJanitor) Sweep(ctx context.Context) int {
	removed, err := j.sessions.SweepIdle(ctx, j.cfg.IdleTTL)
	if err != nil {
		log.Printf("sessionJanitor: sweep error: %v", err)
		return 0
	}
	if removed > 0 {
		log.Printf("sessionJanitor: removed %d idle sessions", removed)
	}
	return removed
}
