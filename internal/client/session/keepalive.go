package session

import (
	"context"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/common"
)

// KeepAlive refreshes the token pair every interval until ctx is done.
// Failures are logged and never stop the loop. A non-positive interval
// means common.DefaultRefreshInterval.
func (s *Store) KeepAlive(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = common.DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.UpdateToken(ctx)
			switch {
			case err == nil:
			case IsRefreshTokenNotFound(err):
				s.log.Debug(ctx, "refresh skipped, no refresh token")
			default:
				s.log.Warn(ctx, "background token refresh failed", "error", err)
			}
		}
	}
}
