package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"portfolio-backend/pkg/redis"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	dataFile string
}

// NewHealthUsecase reports on the data directory and, when configured, Redis.
func NewHealthUsecase(dataFile string) HealthUsecase {
	return &healthUsecase{dataFile: dataFile}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status":  "ok",
		"storage": "ok",
	}
	if _, err := os.Stat(filepath.Dir(u.dataFile)); err != nil {
		status["status"] = "degraded"
		status["storage"] = "unavailable"
	}

	switch err := redis.HealthCheck(ctx); {
	case err == nil:
		status["redis"] = "ok"
	case errors.Is(err, redis.ErrNotConfigured):
		status["redis"] = "disabled"
	default:
		status["redis"] = "unavailable"
	}
	return status
}
