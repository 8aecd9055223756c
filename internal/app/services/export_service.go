package services

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
)

// ExportSheet is the worksheet holding the exported solutions
const ExportSheet = "Solutions"

// ExportColumns are the header cells of the export
var ExportColumns = []string{
	"ID", "Class", "Medium", "Subject", "Chapter", "Exercise", "Question No",
	"Description", "Video ID", "Image", "Text Solution", "Updated At",
}

// ExportService writes the content catalogue as an XLSX workbook
type ExportService struct {
	contentRepo repositories.ContentRepository
	logger      zerolog.Logger
}

// NewExportService creates a new ExportService
func NewExportService(contentRepo repositories.ContentRepository, logger zerolog.Logger) *ExportService {
	return &ExportService{contentRepo: contentRepo, logger: logger}
}

// ExportContent writes every record, most recently updated first, to w
func (s *ExportService) ExportContent(ctx context.Context, w io.Writer) (int, error) {
	items, _, err := s.contentRepo.ListRecent(ctx, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("error loading content for export: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to close export workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return 0, fmt.Errorf("failed to name export sheet: %w", err)
	}

	header := make([]interface{}, len(ExportColumns))
	for i, c := range ExportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return 0, fmt.Errorf("failed to write export header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(ExportColumns))
	if err := f.SetCellStyle(ExportSheet, "A1", lastCol+"1", bold); err != nil {
		return 0, fmt.Errorf("failed to style export header: %w", err)
	}
	if err := f.SetColWidth(ExportSheet, "A", lastCol, 18); err != nil {
		return 0, fmt.Errorf("failed to size export columns: %w", err)
	}

	for i, c := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []interface{}{
			c.ID, c.ClassLevel, string(c.Medium), c.Subject, c.ChapterName, c.ExerciseLabel(),
			c.QuestionNumber, c.QuestionDescription, c.VideoID, c.ImageRef, c.TextSolution,
			c.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write export row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("failed to write export workbook: %w", err)
	}

	s.logger.Info().Int("rows", len(items)).Msg("Content exported")
	return len(items), nil
}
