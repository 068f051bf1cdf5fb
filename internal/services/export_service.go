package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
)

type exportService struct {
	repo     repositories.Repository
	channels ChannelService
	logger   *slog.Logger
}

func NewExportService(repo repositories.Repository, channels ChannelService, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, channels: channels, logger: logger}
}

// ExportAssessmentResults renders one row per assigned member: assignment
// lifecycle, timing, and the score columns for completed results.
func (s *exportService) ExportAssessmentResults(ctx context.Context, actor Actor, assessmentID, channelID uint) ([]byte, string, error) {
	role, ok, err := s.channels.RoleAt(ctx, channelID, actor.ID)
	if err != nil {
		return nil, "", err
	}
	if !ok || !role.Privileged() {
		return nil, "", NewPermissionError(actor.ID, channelID, "export", "read", "requires a privileged role")
	}

	assessment, err := s.repo.Assessment().GetByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrAssessmentNotFound
		}
		return nil, "", err
	}

	assignments, err := s.repo.Assignment().ListByAssessment(ctx, assessmentID, channelID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 32)
	f.SetColWidth(sheet, "B", "C", 14)
	f.SetColWidth(sheet, "D", "G", 12)
	f.SetColWidth(sheet, "H", "I", 20)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", err
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s — results", assessment.Title))
	f.MergeCell(sheet, "A1", "I1")
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	headers := []string{"Member", "Status", "Time Taken", "Score", "Max Score", "Percent", "Attempts", "Started At", "Completed At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 3
	for _, a := range assignments {
		setCell := func(col int, value interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(sheet, cell, value)
		}

		setCell(1, a.UserEmail)
		setCell(2, string(a.Status))
		setCell(3, formatDuration(a.TimeTaken))
		setCell(8, formatTimestamp(a.StartedAt))
		setCell(9, formatTimestamp(a.CompletedAt))

		if a.Status == models.AssignmentCompleted && a.ResultID != nil {
			result, err := s.repo.Result().GetByID(ctx, *a.ResultID)
			if err == nil {
				setCell(4, result.Score)
				setCell(5, result.MaxPossibleScore)
				setCell(6, fmt.Sprintf("%d%%", result.PercentageScore))
			} else {
				s.logger.Warn("result lookup failed during export", "result_id", *a.ResultID, "error", err)
			}
		} else {
			setCell(4, "-")
			setCell(5, "-")
			setCell(6, "-")
		}
		setCell(7, a.Attempts)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("assessment_%d_results_%s.xlsx", assessmentID, time.Now().Format("20060102"))
	s.logger.Info("results exported", "assessment_id", assessmentID, "channel_id", channelID, "rows", len(assignments))
	return buf.Bytes(), filename, nil
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
