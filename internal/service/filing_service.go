package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taxreturn/internal/filingxml"
	"taxreturn/internal/model"
	"taxreturn/internal/repository"
	"taxreturn/pkg/money"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateFilingRequest struct {
	Title       string          `json:"title"`
	Declaration json.RawMessage `json:"declaration" binding:"required" swaggertype:"object"`
}

type UpdateFilingRequest struct {
	Title       string          `json:"title"`
	Declaration json.RawMessage `json:"declaration" binding:"required" swaggertype:"object"`
}

type FilingFilter struct {
	TaxYear int
	Status  string // DRAFT, IN_REVIEW, APPROVED, REJECTED or empty for all
	Page    int
	Limit   int
}

type FilingResponse struct {
	ID             string                      `json:"id"`
	OwnerID        *string                     `json:"owner_id"`
	OwnerName      string                      `json:"owner_name"`
	Title          string                      `json:"title"`
	TaxYear        int                         `json:"tax_year"`
	Status         string                      `json:"status"`
	TaxToPay       string                      `json:"tax_to_pay"`
	TaxToRefund    string                      `json:"tax_to_refund"`
	ReadinessScore int                         `json:"readiness_score"`
	Declaration    *model.Declaration          `json:"declaration,omitempty"`
	Result         *model.TaxCalculationResult `json:"result,omitempty"`
	Warnings       []model.RiskWarning         `json:"warnings,omitempty"`
	CreatedAt      string                      `json:"created_at"`
	UpdatedAt      string                      `json:"updated_at"`
}

// Publisher pushes filing events to connected clients.
type Publisher interface {
	Publish(event string, payload interface{})
}

// Filing events
const (
	EventFilingUpdated = "filing.updated"
	EventFilingDeleted = "filing.deleted"
	EventReviewChanged = "review.changed"
)

// --- Interface ---

type FilingService interface {
	Create(ctx context.Context, actor Actor, req CreateFilingRequest) (FilingResponse, error)
	Get(ctx context.Context, actor Actor, id string) (FilingResponse, error)
	List(ctx context.Context, actor Actor, filter FilingFilter) ([]FilingResponse, int64, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateFilingRequest) (FilingResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Summary(ctx context.Context, actor Actor, id string) (model.HandoffSummary, error)
	ExportXML(ctx context.Context, actor Actor, id string) ([]byte, error)
	ImportXML(ctx context.Context, actor Actor, title string, data []byte) (FilingResponse, error)
}

type filingService struct {
	repo      repository.FilingRepository
	audit     repository.AuditRepository
	tx        repository.TransactionManager
	tax       TaxService
	publisher Publisher
	log       *zap.Logger
}

func NewFilingService(
	repo repository.FilingRepository,
	audit repository.AuditRepository,
	tx repository.TransactionManager,
	tax TaxService,
	publisher Publisher,
	log *zap.Logger,
) FilingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &filingService{repo: repo, audit: audit, tx: tx, tax: tax, publisher: publisher, log: log}
}

// --- Implementation ---

func (s *filingService) Create(ctx context.Context, actor Actor, req CreateFilingRequest) (FilingResponse, error) {
	d, err := s.tax.DecodeDeclaration(req.Declaration)
	if err != nil {
		return FilingResponse{}, err
	}
	return s.create(ctx, actor, req.Title, d, model.ActionCreateFiling)
}

func (s *filingService) ImportXML(ctx context.Context, actor Actor, title string, data []byte) (FilingResponse, error) {
	d, err := filingxml.Import(data)
	if err != nil {
		return FilingResponse{}, fmt.Errorf("%w: %v", ErrInvalidDeclaration, err)
	}
	return s.create(ctx, actor, title, d, model.ActionImportFiling)
}

func (s *filingService) create(ctx context.Context, actor Actor, title string, d model.Declaration, action string) (FilingResponse, error) {
	if title == "" {
		title = fmt.Sprintf("DPFO %d", d.TaxYear)
	}
	filing := model.Filing{
		OwnerID: actor.userID(),
		Title:   title,
		Status:  model.FilingDraft,
	}
	computed, err := s.apply(&filing, d)
	if err != nil {
		return FilingResponse{}, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, &filing); createErr != nil {
			return fmt.Errorf("failed to create filing: %w", createErr)
		}
		return s.writeAudit(txCtx, actor, action, filing, map[string]interface{}{
			"tax_year":        filing.TaxYear,
			"readiness_score": filing.ReadinessScore,
		})
	})
	if err != nil {
		return FilingResponse{}, err
	}

	resp := toFilingResponse(filing, &d, &computed)
	s.publish(EventFilingUpdated, resp)
	return resp, nil
}

func (s *filingService) Get(ctx context.Context, actor Actor, id string) (FilingResponse, error) {
	filing, err := s.find(ctx, actor, id)
	if err != nil {
		return FilingResponse{}, err
	}
	d, err := decodeStored(filing)
	if err != nil {
		return FilingResponse{}, err
	}
	computed := s.tax.Compute(d)
	return toFilingResponse(*filing, &d, &computed), nil
}

func (s *filingService) List(ctx context.Context, actor Actor, filter FilingFilter) ([]FilingResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	query := repository.FilingFilter{
		TaxYear: filter.TaxYear,
		Status:  filter.Status,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
	if !actor.Staff() {
		query.OwnerID = &actor.ID
	}

	filings, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch filings: %w", err)
	}

	result := make([]FilingResponse, 0, len(filings))
	for _, f := range filings {
		result = append(result, toFilingResponse(f, nil, nil))
	}
	return result, total, nil
}

// Update replaces the declaration and recomputes. The last write wins.
func (s *filingService) Update(ctx context.Context, actor Actor, id string, req UpdateFilingRequest) (FilingResponse, error) {
	d, err := s.tax.DecodeDeclaration(req.Declaration)
	if err != nil {
		return FilingResponse{}, err
	}

	var filing *model.Filing
	var computed ComputeResponse
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		filing, findErr = s.find(txCtx, actor, id)
		if findErr != nil {
			return findErr
		}
		if filing.Status == model.FilingInReview {
			return ErrFilingInReview
		}

		if req.Title != "" {
			filing.Title = req.Title
		}
		filing.Status = model.FilingDraft
		var applyErr error
		if computed, applyErr = s.apply(filing, d); applyErr != nil {
			return applyErr
		}

		if saveErr := s.repo.Update(txCtx, filing); saveErr != nil {
			return fmt.Errorf("failed to update filing: %w", saveErr)
		}
		return s.writeAudit(txCtx, actor, model.ActionUpdateFiling, *filing, map[string]interface{}{
			"tax_to_pay":      computed.Result.TaxToPay,
			"tax_to_refund":   computed.Result.TaxToRefund,
			"readiness_score": filing.ReadinessScore,
		})
	})
	if err != nil {
		return FilingResponse{}, err
	}

	resp := toFilingResponse(*filing, &d, &computed)
	s.publish(EventFilingUpdated, resp)
	return resp, nil
}

func (s *filingService) Delete(ctx context.Context, actor Actor, id string) error {
	var filing *model.Filing
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		if filing, findErr = s.find(txCtx, actor, id); findErr != nil {
			return findErr
		}
		if delErr := s.repo.Delete(txCtx, filing.ID); delErr != nil {
			return fmt.Errorf("failed to delete filing: %w", delErr)
		}
		return s.writeAudit(txCtx, actor, model.ActionDeleteFiling, *filing, nil)
	})
	if err != nil {
		return err
	}

	s.publish(EventFilingDeleted, map[string]string{"id": filing.ID.String()})
	return nil
}

func (s *filingService) Summary(ctx context.Context, actor Actor, id string) (model.HandoffSummary, error) {
	filing, err := s.find(ctx, actor, id)
	if err != nil {
		return model.HandoffSummary{}, err
	}
	d, err := decodeStored(filing)
	if err != nil {
		return model.HandoffSummary{}, err
	}
	return s.tax.Compute(d).Summary, nil
}

func (s *filingService) ExportXML(ctx context.Context, actor Actor, id string) ([]byte, error) {
	filing, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	d, err := decodeStored(filing)
	if err != nil {
		return nil, err
	}

	data, err := filingxml.Export(d, s.tax.Compute(d).Result)
	if err != nil {
		return nil, fmt.Errorf("failed to export filing: %w", err)
	}

	// Export is a read; a lost audit entry must not fail it.
	if auditErr := s.writeAudit(ctx, actor, model.ActionExportFiling, *filing, nil); auditErr != nil {
		s.log.Warn("export audit entry not written", zap.String("filing_id", id), zap.Error(auditErr))
	}
	return data, nil
}

// --- Helpers ---

func (s *filingService) find(ctx context.Context, actor Actor, id string) (*model.Filing, error) {
	filingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id", ErrFilingNotFound)
	}
	filing, err := s.repo.FindByID(ctx, filingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFilingNotFound
		}
		return nil, fmt.Errorf("failed to load filing: %w", err)
	}
	if !actor.CanAccess(filing) {
		// Other taxpayers' filings do not exist as far as the caller can tell.
		return nil, ErrFilingNotFound
	}
	return filing, nil
}

// apply stores d on f and refreshes every derived column.
func (s *filingService) apply(f *model.Filing, d model.Declaration) (ComputeResponse, error) {
	computed := s.tax.Compute(d)

	decl, err := json.Marshal(d)
	if err != nil {
		return ComputeResponse{}, fmt.Errorf("failed to encode declaration: %w", err)
	}
	result, err := json.Marshal(computed.Result)
	if err != nil {
		return ComputeResponse{}, fmt.Errorf("failed to encode result: %w", err)
	}

	f.TaxYear = computed.Result.TaxYear
	f.Declaration = string(decl)
	f.Result = string(result)
	f.TaxToPay = money.Parse(computed.Result.TaxToPay)
	f.TaxToRefund = money.Parse(computed.Result.TaxToRefund)
	f.ReadinessScore = computed.Summary.ReadinessScore
	return computed, nil
}

func (s *filingService) writeAudit(ctx context.Context, actor Actor, action string, f model.Filing, details map[string]interface{}) error {
	payload := "{}"
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
		payload = string(raw)
	}
	entry := model.AuditLog{
		UserID:     actor.userID(),
		Action:     action,
		EntityID:   f.ID.String(),
		EntityName: f.Title,
		Details:    payload,
	}
	if err := s.audit.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *filingService) publish(event string, payload interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(event, payload)
	}
}

func decodeStored(f *model.Filing) (model.Declaration, error) {
	d, err := DecodeDeclaration([]byte(f.Declaration))
	if err != nil {
		return d, fmt.Errorf("stored declaration of filing %s: %w", f.ID, err)
	}
	return d, nil
}

func toFilingResponse(f model.Filing, d *model.Declaration, computed *ComputeResponse) FilingResponse {
	resp := FilingResponse{
		ID:             f.ID.String(),
		Title:          f.Title,
		TaxYear:        f.TaxYear,
		Status:         f.Status,
		TaxToPay:       money.Format(f.TaxToPay),
		TaxToRefund:    money.Format(f.TaxToRefund),
		ReadinessScore: f.ReadinessScore,
		Declaration:    d,
		CreatedAt:      f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      f.UpdatedAt.Format(time.RFC3339),
	}
	if f.OwnerID != nil {
		s := f.OwnerID.String()
		resp.OwnerID = &s
	}
	if f.Owner != nil {
		resp.OwnerName = f.Owner.Username
	}
	if computed != nil {
		resp.Result = &computed.Result
		resp.Warnings = computed.Warnings
	}
	return resp
}
