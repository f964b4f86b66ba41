package users_services

import (
	"context"
	"sync"
	"time"
)

const sessionSweepPeriod = 1 * time.Hour

// StartSessionSweeper periodically removes expired session rows. Expired
// sessions already fail validation; the sweeper only keeps the table small.
func StartSessionSweeper(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(sessionSweepPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := GetUserService().DeleteExpiredSessions(); err != nil {
					GetUserService().logger.Error("session sweep failed", "error", err)
				}
			}
		}
	}()
}
