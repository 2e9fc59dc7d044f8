package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

const completionSheet = "Completion"

// ExportBranchCompletion builds an xlsx workbook listing every user with a
// progress record for the branch, their completion percentage and timestamp.
func (s *reportService) ExportBranchCompletion(ctx context.Context, branchID uuid.UUID) ([]byte, error) {
	branch, err := s.repo.Branch().GetByIDWithLeaves(ctx, branchID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBranchNotFound
		}
		s.logger.Error("Failed to get branch", "branch_id", branchID, "error", err)
		return nil, NewUnexpectedError("failed to export completion report", err)
	}

	records, err := s.repo.Progress().GetByBranch(ctx, branchID)
	if err != nil {
		s.logger.Error("Failed to list progress", "branch_id", branchID, "error", err)
		return nil, NewUnexpectedError("failed to export completion report", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", completionSheet)

	headers := []string{"User ID", "Email", "Display Name", "Completed Leaves", "Total Leaves", "Percentage", "Completed At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(completionSheet, cell, header); err != nil {
			return nil, NewUnexpectedError("failed to export completion report", err)
		}
	}

	leafSet := branch.LeafIDSet()

	for row, record := range records {
		user, err := s.repo.User().GetByID(ctx, record.UserID)
		if err != nil && !repositories.IsNotFoundError(err) {
			s.logger.Error("Failed to get user for report", "user_id", record.UserID, "error", err)
			return nil, NewUnexpectedError("failed to export completion report", err)
		}

		if err := s.writeRow(f, row+2, record, user, leafSet); err != nil {
			return nil, NewUnexpectedError("failed to export completion report", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("Failed to serialize report", "branch_id", branchID, "error", err)
		return nil, NewUnexpectedError("failed to export completion report", err)
	}

	s.logger.Info("Completion report exported", "branch_id", branchID, "rows", len(records))
	return buf.Bytes(), nil
}

func (s *reportService) writeRow(f *excelize.File, row int, record *models.Progress, user *models.User, leafSet map[uuid.UUID]struct{}) error {
	valid := filterToSet(record.CompletedLeafIDs, leafSet)

	email, name := "", ""
	if user != nil {
		email, name = user.Email, user.DisplayName
	}

	completedAt := ""
	if record.CompletedAt != nil {
		completedAt = record.CompletedAt.UTC().Format("2006-01-02 15:04:05")
	}

	values := []interface{}{
		record.UserID.String(),
		email,
		name,
		len(valid),
		len(leafSet),
		percentage(len(valid), len(leafSet)),
		completedAt,
	}
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetCellValue(completionSheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
	}
	return nil
}
