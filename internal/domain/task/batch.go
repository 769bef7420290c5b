package task

import (
	"context"
	"errors"

	"github.com/mhutchens/taskbridge/internal/domain/validation"
	"github.com/mhutchens/taskbridge/internal/safety"
)

// BatchFailure records one identifier that could not be updated.
type BatchFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BatchResult aggregates a best-effort batch. Every input identifier
// appears exactly once across UpdatedIDs and Failures, in processing
// (input) order.
type BatchResult struct {
	UpdatedCount int            `json:"updated_count"`
	FailedCount  int            `json:"failed_count"`
	UpdatedIDs   []string       `json:"updated_ids"`
	Failures     []BatchFailure `json:"failures"`
}

// UpdateMany applies the same update to every identifier, continuing past
// individual failures. Fields that require per-record-unique values are
// rejected up front; per-identifier validation and backend errors become
// failure entries. A safety error aborts the batch before any mutation.
func (s *Service) UpdateMany(ctx context.Context, ids []string, req UpdateRequest) (BatchResult, error) {
	if err := req.validateForBatch(); err != nil {
		return BatchResult{}, err
	}
	return s.forEach(ctx, ids, func(ctx context.Context, id string) (UpdateResult, error) {
		return s.Update(ctx, id, req)
	})
}

// CompleteMany marks every identifier complete, best-effort.
func (s *Service) CompleteMany(ctx context.Context, ids []string) (BatchResult, error) {
	return s.forEach(ctx, ids, s.Complete)
}

// DeleteMany deletes every identifier, best-effort.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (BatchResult, error) {
	return s.forEach(ctx, ids, s.Delete)
}

func (s *Service) forEach(ctx context.Context, ids []string, apply func(context.Context, string) (UpdateResult, error)) (BatchResult, error) {
	if len(ids) == 0 {
		return BatchResult{}, validation.Newf("task_ids", "at least one identifier required")
	}

	result := BatchResult{UpdatedIDs: []string{}, Failures: []BatchFailure{}}
	for _, id := range ids {
		res, err := apply(ctx, id)
		if err != nil {
			var guardErr *safety.Error
			if errors.As(err, &guardErr) {
				// Wrong backing store: nothing has been or will be mutated.
				return BatchResult{}, err
			}
			result.FailedCount++
			result.Failures = append(result.Failures, BatchFailure{ID: id, Error: err.Error()})
			continue
		}
		if !res.Success {
			result.FailedCount++
			result.Failures = append(result.Failures, BatchFailure{ID: id, Error: res.Error})
			continue
		}
		result.UpdatedCount++
		result.UpdatedIDs = append(result.UpdatedIDs, id)
	}
	return result, nil
}
