package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/events"
	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/validator"
)

type progressService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewProgressService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ProgressService {
	return &progressService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// GetProgress returns the user's completion state for a branch. Ids of
// leaves no longer in the branch are filtered out of the response; storage
// is left untouched.
func (s *progressService) GetProgress(ctx context.Context, userID, branchID uuid.UUID) (*ProgressResponse, error) {
	progress, err := s.repo.Progress().GetByUserAndBranch(ctx, userID, branchID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgressNotFound
		}
		s.logger.Error("Failed to get progress", "user_id", userID, "branch_id", branchID, "error", err)
		return nil, NewUnexpectedError("failed to get progress", err)
	}

	leafSet, err := s.currentLeafSet(ctx, branchID)
	if err != nil {
		return nil, err
	}

	return s.toProgressResponse(progress, leafSet), nil
}

// UpdateProgress merges newly completed leaves into the stored set. The
// merge is a set union; ids are never removed, and the read-modify-write
// runs under a row lock so concurrent updates for the same (user, branch)
// serialize.
func (s *progressService) UpdateProgress(ctx context.Context, userID, branchID uuid.UUID, req *UpdateProgressRequest) (*ProgressResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	exists, err := s.repo.Branch().ExistsByID(ctx, branchID)
	if err != nil {
		s.logger.Error("Failed to check branch existence", "branch_id", branchID, "error", err)
		return nil, NewUnexpectedError("failed to update progress", err)
	}
	if !exists {
		return nil, ErrBranchNotFound
	}

	leafSet, err := s.currentLeafSet(ctx, branchID)
	if err != nil {
		return nil, err
	}

	// Ids of leaves not (or no longer) in the branch are dropped before the
	// merge so they never enter storage through this path.
	incoming := filterToSet(req.CompletedLeafIDs, leafSet)

	var result *models.Progress
	var completedNow bool

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		progress, err := txRepo.Progress().GetByUserAndBranchForUpdate(ctx, userID, branchID)
		if repositories.IsNotFoundError(err) {
			progress = &models.Progress{
				ID:       uuid.New(),
				UserID:   userID,
				BranchID: branchID,
			}
			// Merge into the empty record so repeated ids in the request
			// collapse the same way they do on the update path.
			progress.MergeCompleted(incoming)
			completedNow = s.stampIfComplete(progress, leafSet)
			result = progress
			return txRepo.Progress().Create(ctx, progress)
		}
		if err != nil {
			return err
		}

		progress.MergeCompleted(incoming)
		completedNow = s.stampIfComplete(progress, leafSet)
		result = progress
		return txRepo.Progress().Update(ctx, progress)
	})
	if err != nil {
		s.logger.Error("Failed to update progress", "user_id", userID, "branch_id", branchID, "error", err)
		return nil, NewUnexpectedError("failed to update progress", err)
	}

	if completedNow {
		s.logger.Info("Branch completed", "user_id", userID, "branch_id", branchID)
		s.publishBranchCompleted(ctx, result)
	}

	return s.toProgressResponse(result, leafSet), nil
}

func (s *progressService) GetCompletedBranches(ctx context.Context, userID uuid.UUID) ([]*CompletedBranchResponse, error) {
	records, err := s.repo.Progress().GetCompletedByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list completed branches", "user_id", userID, "error", err)
		return nil, NewUnexpectedError("failed to list completed branches", err)
	}

	out := make([]*CompletedBranchResponse, 0, len(records))
	for _, record := range records {
		out = append(out, &CompletedBranchResponse{
			BranchID:    record.BranchID,
			CompletedAt: record.CompletedAt,
		})
	}
	return out, nil
}

// stampIfComplete sets CompletedAt the first time the stored set covers the
// branch's current leaves. An already-set timestamp is never touched, even
// when the branch later gains leaves. A branch with no leaves completes on
// its first update.
func (s *progressService) stampIfComplete(progress *models.Progress, leafSet map[uuid.UUID]struct{}) bool {
	if progress.CompletedAt != nil {
		return false
	}
	if !progress.Covers(leafSet) {
		return false
	}
	now := s.now().UTC()
	progress.CompletedAt = &now
	return true
}

func (s *progressService) currentLeafSet(ctx context.Context, branchID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	leafIDs, err := s.repo.Branch().GetLeafIDs(ctx, branchID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBranchNotFound
		}
		s.logger.Error("Failed to get branch leaves", "branch_id", branchID, "error", err)
		return nil, NewUnexpectedError("failed to get branch leaves", err)
	}

	set := make(map[uuid.UUID]struct{}, len(leafIDs))
	for _, id := range leafIDs {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *progressService) toProgressResponse(progress *models.Progress, leafSet map[uuid.UUID]struct{}) *ProgressResponse {
	valid := filterToSet(progress.CompletedLeafIDs, leafSet)

	return &ProgressResponse{
		UserID:           progress.UserID,
		BranchID:         progress.BranchID,
		CompletedLeafIDs: valid,
		Percentage:       percentage(len(valid), len(leafSet)),
		CompletedAt:      progress.CompletedAt,
	}
}

// percentage is round(100*k/n, 2), with 0 for an empty branch.
func percentage(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(100*float64(completed)/float64(total)*100) / 100
}

// filterToSet keeps the ids present in set, dropping duplicates, so the
// result is a true subset and safe to count against the set's cardinality.
func filterToSet(ids []uuid.UUID, set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *progressService) publishBranchCompleted(ctx context.Context, progress *models.Progress) {
	if s.publisher == nil || progress.CompletedAt == nil {
		return
	}
	event := events.NewEvent(events.TypeBranchCompleted, events.BranchCompletedEvent{
		UserID:      progress.UserID.String(),
		BranchID:    progress.BranchID.String(),
		CompletedAt: *progress.CompletedAt,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish progress.branch_completed event",
			"user_id", progress.UserID,
			"branch_id", progress.BranchID,
			"error", err)
	}
}
