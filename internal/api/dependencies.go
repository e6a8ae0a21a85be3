package api

import (
	"context"
	"time"

	"csb/statusboard/internal/statuscache"
	"csb/statusboard/internal/web"
)

// StatusSource serves health check snapshots.
type StatusSource interface {
	Refresh(ctx context.Context) statuscache.Snapshot
	Current(ctx context.Context) statuscache.Snapshot
	Peek() statuscache.Snapshot
}

type Dependencies struct {
	Status         StatusSource
	Renderer       *web.Renderer
	CooldownPeriod time.Duration
	UpSince        time.Time
	Now            func() time.Time
}
