package ports

import (
	"context"

	"github.com/referendum/api/internal/core/domain"
)

type StatsService interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	Overview(ctx context.Context) ([]domain.OverviewEntry, error)
}
