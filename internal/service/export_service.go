package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/lesson-booking-api/internal/dto"
	"github.com/noah-isme/lesson-booking-api/internal/models"
	appErrors "github.com/noah-isme/lesson-booking-api/pkg/errors"
	"github.com/noah-isme/lesson-booking-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var weekdayHeaders = [models.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type timetableSource interface {
	GetLessons(ctx context.Context, query dto.LessonQuery) ([]models.TimetableRow, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders the weekly timetable as a printable grid.
type ExportService struct {
	timetables timetableSource
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// pkg/export defaults.
func NewExportService(timetables timetableSource, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(3)
	}
	return &ExportService{timetables: timetables, csv: csv, pdf: pdf, logger: logger}
}

// Export returns the rendered timetable and its content type.
func (s *ExportService) Export(ctx context.Context, query dto.LessonQuery, format string) ([]byte, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	rows, err := s.timetables.GetLessons(ctx, query)
	if err != nil {
		return nil, "", err
	}
	dataset := timetableDataset(rows)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	default:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	s.logger.Debug("timetable exported", zap.String("format", format), zap.Int("weeks", len(rows)), zap.Int("bytes", len(payload)))
	return payload, contentType, nil
}

// timetableDataset flattens rows into one line per week and period.
func timetableDataset(rows []models.TimetableRow) export.Dataset {
	headers := append([]string{"Week", "Monday", "Period"}, weekdayHeaders[:]...)
	data := export.Dataset{Title: "Timetable", Headers: headers, Rows: [][]string{}}
	if len(rows) == 1 {
		data.Title = "Timetable " + rows[0].Week
	}

	for _, row := range rows {
		for _, period := range row.Periods {
			record := make([]string, 0, len(headers))
			record = append(record, row.Week, row.Monday, period.Period)
			for _, slot := range period.Days {
				record = append(record, describeSlot(slot))
			}
			data.Rows = append(data.Rows, record)
		}
	}
	return data
}

func describeSlot(lessons []models.Lesson) string {
	parts := make([]string, 0, len(lessons))
	for _, lesson := range lessons {
		parts = append(parts, fmt.Sprintf("%s (%s)", lesson.SubjectName, lesson.TeacherName))
	}
	return strings.Join(parts, "; ")
}
