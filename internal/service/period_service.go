package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lesson-booking-api/internal/models"
	appErrors "github.com/noah-isme/lesson-booking-api/pkg/errors"
)

// PeriodService exposes the period catalog.
type PeriodService struct {
	catalog periodCatalog
	logger  *zap.Logger
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService(catalog periodCatalog, logger *zap.Logger) *PeriodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{catalog: catalog, logger: logger}
}

// List returns every period in catalog order.
func (s *PeriodService) List(ctx context.Context) ([]models.Period, error) {
	periods, err := s.catalog.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load period catalog", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period catalog")
	}
	if periods == nil {
		periods = []models.Period{}
	}
	return periods, nil
}
