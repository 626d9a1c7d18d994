package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taxreturn/internal/model"
	"taxreturn/internal/repository"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type RequestReviewRequest struct {
	Note string `json:"note"`
}

type ApproveReviewRequest struct {
	Comment string `json:"comment"`
}

type RejectReviewRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ReviewFilter struct {
	Status string // PENDING, APPROVED, REJECTED or empty for all
	Page   int
	Limit  int
}

type ReviewResponse struct {
	ID             string               `json:"id"`
	FilingID       string               `json:"filing_id"`
	Summary        model.HandoffSummary `json:"summary"`
	ReadinessScore int                  `json:"readiness_score"`
	Note           string               `json:"note"`
	Status         string               `json:"status"`
	RequestedBy    *string              `json:"requested_by"`
	RequesterName  string               `json:"requester_name"`
	ReviewedBy     *string              `json:"reviewed_by"`
	ReviewerName   string               `json:"reviewer_name"`
	ReviewedAt     *string              `json:"reviewed_at"`
	Comment        string               `json:"comment"`
	CreatedAt      string               `json:"created_at"`
}

// --- Interface ---

// ReviewService hands filings over to an accountant and records the verdict.
type ReviewService interface {
	RequestReview(ctx context.Context, actor Actor, filingID string, req RequestReviewRequest) (ReviewResponse, error)
	ListReviews(ctx context.Context, filter ReviewFilter) ([]ReviewResponse, int64, error)
	ApproveReview(ctx context.Context, actor Actor, id string, comment string) (ReviewResponse, error)
	RejectReview(ctx context.Context, actor Actor, id string, reason string) (ReviewResponse, error)
}

type reviewService struct {
	reviews   repository.ReviewRepository
	filings   repository.FilingRepository
	audit     repository.AuditRepository
	tx        repository.TransactionManager
	tax       TaxService
	publisher Publisher
	log       *zap.Logger
}

func NewReviewService(
	reviews repository.ReviewRepository,
	filings repository.FilingRepository,
	audit repository.AuditRepository,
	tx repository.TransactionManager,
	tax TaxService,
	publisher Publisher,
	log *zap.Logger,
) ReviewService {
	if log == nil {
		log = zap.NewNop()
	}
	return &reviewService{
		reviews:   reviews,
		filings:   filings,
		audit:     audit,
		tx:        tx,
		tax:       tax,
		publisher: publisher,
		log:       log,
	}
}

// --- Implementation ---

// RequestReview freezes the current handoff summary of a filing and queues it for an accountant.
func (s *reviewService) RequestReview(ctx context.Context, actor Actor, filingID string, req RequestReviewRequest) (ReviewResponse, error) {
	id, err := uuid.Parse(filingID)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("%w: invalid id", ErrFilingNotFound)
	}

	var review model.Review
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		filing, findErr := s.filings.FindByID(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrNotFound) {
				return ErrFilingNotFound
			}
			return fmt.Errorf("failed to load filing: %w", findErr)
		}
		if !actor.CanAccess(filing) {
			return ErrFilingNotFound
		}

		pending, pendErr := s.reviews.HasPending(txCtx, filing.ID)
		if pendErr != nil {
			return fmt.Errorf("failed to check pending reviews: %w", pendErr)
		}
		if pending {
			return ErrReviewAlreadyPending
		}

		d, decodeErr := decodeStored(filing)
		if decodeErr != nil {
			return decodeErr
		}
		summary := s.tax.Compute(d).Summary
		raw, encErr := json.Marshal(summary)
		if encErr != nil {
			return fmt.Errorf("failed to encode summary: %w", encErr)
		}

		review = model.Review{
			FilingID:       filing.ID,
			Summary:        string(raw),
			ReadinessScore: summary.ReadinessScore,
			Note:           req.Note,
			Status:         model.ReviewPending,
			RequestedBy:    actor.userID(),
		}
		if createErr := s.reviews.Create(txCtx, &review); createErr != nil {
			return fmt.Errorf("failed to create review: %w", createErr)
		}

		filing.Status = model.FilingInReview
		if saveErr := s.filings.Update(txCtx, filing); saveErr != nil {
			return fmt.Errorf("failed to update filing status: %w", saveErr)
		}

		return s.writeAudit(txCtx, actor, model.ActionRequestReview, review, map[string]interface{}{
			"filing_id":       filing.ID.String(),
			"readiness_score": summary.ReadinessScore,
		})
	})
	if err != nil {
		return ReviewResponse{}, err
	}

	return s.reload(ctx, review)
}

func (s *reviewService) ListReviews(ctx context.Context, filter ReviewFilter) ([]ReviewResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	reviews, total, err := s.reviews.List(ctx, filter.Status, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	result := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		result = append(result, toReviewResponse(r, s.log))
	}
	return result, total, nil
}

func (s *reviewService) ApproveReview(ctx context.Context, actor Actor, id string, comment string) (ReviewResponse, error) {
	return s.decide(ctx, actor, id, model.ReviewApproved, comment)
}

func (s *reviewService) RejectReview(ctx context.Context, actor Actor, id string, reason string) (ReviewResponse, error) {
	return s.decide(ctx, actor, id, model.ReviewRejected, reason)
}

// decide closes a pending review and moves its filing to the matching final status.
func (s *reviewService) decide(ctx context.Context, actor Actor, id string, status string, comment string) (ReviewResponse, error) {
	reviewID, err := uuid.Parse(id)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("%w: invalid id", ErrReviewNotFound)
	}

	filingStatus, action := model.FilingApproved, model.ActionApproveReview
	if status == model.ReviewRejected {
		filingStatus, action = model.FilingRejected, model.ActionRejectReview
	}

	var review *model.Review
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		review, findErr = s.reviews.FindByID(txCtx, reviewID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("failed to load review: %w", findErr)
		}
		if review.Status != model.ReviewPending {
			return fmt.Errorf("%w: already %s", ErrReviewNotPending, review.Status)
		}

		now := time.Now()
		review.Status = status
		review.ReviewedBy = actor.userID()
		review.ReviewedAt = &now
		review.Comment = comment
		if saveErr := s.reviews.Update(txCtx, review); saveErr != nil {
			return fmt.Errorf("failed to update review: %w", saveErr)
		}

		filing, filingErr := s.filings.FindByID(txCtx, review.FilingID)
		if filingErr != nil {
			return fmt.Errorf("failed to load filing: %w", filingErr)
		}
		filing.Status = filingStatus
		if saveErr := s.filings.Update(txCtx, filing); saveErr != nil {
			return fmt.Errorf("failed to update filing status: %w", saveErr)
		}

		return s.writeAudit(txCtx, actor, action, *review, map[string]interface{}{
			"filing_id": review.FilingID.String(),
			"comment":   comment,
		})
	})
	if err != nil {
		return ReviewResponse{}, err
	}

	return s.reload(ctx, *review)
}

// --- Helpers ---

func (s *reviewService) reload(ctx context.Context, review model.Review) (ReviewResponse, error) {
	loaded, err := s.reviews.FindByIDWithRelations(ctx, review.ID)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("failed to reload review: %w", err)
	}
	resp := toReviewResponse(*loaded, s.log)
	if s.publisher != nil {
		s.publisher.Publish(EventReviewChanged, resp)
	}
	return resp, nil
}

func (s *reviewService) writeAudit(ctx context.Context, actor Actor, action string, r model.Review, details map[string]interface{}) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	entry := model.AuditLog{
		UserID:     actor.userID(),
		Action:     action,
		EntityID:   r.ID.String(),
		EntityName: r.FilingID.String(),
		Details:    string(raw),
	}
	if err := s.audit.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toReviewResponse(r model.Review, log *zap.Logger) ReviewResponse {
	resp := ReviewResponse{
		ID:             r.ID.String(),
		FilingID:       r.FilingID.String(),
		ReadinessScore: r.ReadinessScore,
		Note:           r.Note,
		Status:         r.Status,
		Comment:        r.Comment,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if err := json.Unmarshal([]byte(r.Summary), &resp.Summary); err != nil {
		log.Warn("stored review summary unreadable", zap.String("review_id", resp.ID), zap.Error(err))
	}

	if r.RequestedBy != nil {
		s := r.RequestedBy.String()
		resp.RequestedBy = &s
	}
	if r.Requester != nil {
		resp.RequesterName = r.Requester.Username
	}
	if r.ReviewedBy != nil {
		s := r.ReviewedBy.String()
		resp.ReviewedBy = &s
	}
	if r.Reviewer != nil {
		resp.ReviewerName = r.Reviewer.Username
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}
