package repository

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/lesson-booking-api/internal/models"
)

type periodCatalogFile struct {
	Periods []models.Period `yaml:"periods"`
}

// YAMLPeriodRepository serves the period catalog from a YAML file. The file is
// re-read on every call so edits apply without a restart.
type YAMLPeriodRepository struct {
	filename string
}

// NewYAMLPeriodRepository creates a catalog backed by filename.
func NewYAMLPeriodRepository(filename string) *YAMLPeriodRepository {
	return &YAMLPeriodRepository{filename: filename}
}

// ListAll returns the periods in file order. Missing ids default to the
// 1-based position and sort_order always follows file order.
func (r *YAMLPeriodRepository) ListAll(ctx context.Context) ([]models.Period, error) {
	data, err := os.ReadFile(r.filename)
	if err != nil {
		return nil, fmt.Errorf("read period catalog %s: %w", r.filename, err)
	}

	var catalog periodCatalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse period catalog %s: %w", r.filename, err)
	}

	periods := make([]models.Period, 0, len(catalog.Periods))
	for i, period := range catalog.Periods {
		if period.ID == "" {
			period.ID = strconv.Itoa(i + 1)
		}
		period.SortOrder = i
		periods = append(periods, period)
	}
	return periods, nil
}
