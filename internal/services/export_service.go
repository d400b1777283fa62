package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SPMS-2025/progress-service/internal/repositories"
)

type ExportService interface {
	// ExportStudents renders the full roster as an .xlsx workbook.
	ExportStudents(ctx context.Context) (*bytes.Buffer, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var exportHeaders = []string{
	"Name", "Email", "Phone", "Codeforces Handle",
	"Current Rating", "Max Rating", "Reminders Enabled",
	"Inactive Reminders", "Last Synced At",
}

func (s *exportService) ExportStudents(ctx context.Context) (*bytes.Buffer, error) {
	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Students"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, student := range students {
		lastSynced := ""
		if student.LastSyncedAt != nil {
			lastSynced = student.LastSyncedAt.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			student.Name,
			student.Email,
			student.Phone,
			student.CodeforcesHandle,
			student.CurrentRating,
			student.MaxRating,
			student.EmailRemindersEnabled,
			student.InactiveReminders,
			lastSynced,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("exported student roster", "count", len(students))
	return buf, nil
}
