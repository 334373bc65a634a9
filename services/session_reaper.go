package services

import (
	"context"
	"time"

	"github.com/pedidoshn/pedidos-app/utils"
)

// SessionReaper periodically deletes expired sessions and revoked-token entries.
type SessionReaper struct {
	Store    *SessionStore
	StopChan chan struct{}
	Interval time.Duration
}

func NewSessionReaper(store *SessionStore) *SessionReaper {
	return &SessionReaper{
		Store:    store,
		StopChan: make(chan struct{}),
		Interval: 15 * time.Minute,
	}
}

func (sr *SessionReaper) Start() {
	go func() {
		ticker := time.NewTicker(sr.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sr.Sweep(time.Now())
			case <-sr.StopChan:
				return
			}
		}
	}()
}

func (sr *SessionReaper) Stop() {
	close(sr.StopChan)
}

func (sr *SessionReaper) Sweep(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := sr.Store.DeleteExpired(ctx, now)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("deleting expired sessions")
		return
	}
	tokens := utils.PruneBlacklist(now)
	if removed > 0 || tokens > 0 {
		utils.InfoLogger.Printf("Reaped %d expired sessions, %d revoked tokens", removed, tokens)
	}
}
