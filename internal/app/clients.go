package app

import (
	"github.com/brickline/brickline-backend/internal/clients/redis"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type Clients struct {
	Idempotency redis.IdempotencyStore
}

// wireClients tolerates a missing Redis: budget creation then runs without
// replay protection instead of refusing to boot.
func wireClients(log *logger.Logger) Clients {
	idempotency, err := redis.NewIdempotencyStore(log)
	if err != nil {
		log.Warn("idempotency store unavailable (continuing without replay protection)", "error", err.Error())
		idempotency = nil
	}
	return Clients{Idempotency: idempotency}
}
