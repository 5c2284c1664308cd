package usecase

import (
	"time"

	"vira/internal/domain/entity"
)

type TokenManager interface {
	Issue(device, email string) (string, *entity.Session, error)
	Verify(token string) (*entity.Session, error)
	Revoke(session *entity.Session)
}

// RateLimiter reports whether key may perform action now, and how long to
// wait otherwise.
type RateLimiter interface {
	Allow(key, action string) (bool, time.Duration)
}
