package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"taxreturn/internal/model"
	"taxreturn/internal/repository"

	"github.com/google/uuid"
)

type inlineTx struct{}

func (inlineTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type memFilings struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Filing
}

func newMemFilings() *memFilings {
	return &memFilings{rows: map[uuid.UUID]model.Filing{}}
}

func (m *memFilings) Create(_ context.Context, f *model.Filing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	m.rows[f.ID] = *f
	return nil
}

func (m *memFilings) FindByID(_ context.Context, id uuid.UUID) (*model.Filing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (m *memFilings) List(_ context.Context, filter repository.FilingFilter) ([]model.Filing, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Filing
	for _, f := range m.rows {
		if filter.OwnerID != nil && (f.OwnerID == nil || *f.OwnerID != *filter.OwnerID) {
			continue
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, int64(len(out)), nil
}

func (m *memFilings) Update(_ context.Context, f *model.Filing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.UpdatedAt = time.Now()
	m.rows[f.ID] = *f
	return nil
}

func (m *memFilings) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memReviews struct {
	rows map[uuid.UUID]model.Review
}

func newMemReviews() *memReviews {
	return &memReviews{rows: map[uuid.UUID]model.Review{}}
}

func (m *memReviews) Create(_ context.Context, r *model.Review) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	m.rows[r.ID] = *r
	return nil
}

func (m *memReviews) FindByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memReviews) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return m.FindByID(ctx, id)
}

func (m *memReviews) HasPending(_ context.Context, filingID uuid.UUID) (bool, error) {
	for _, r := range m.rows {
		if r.FilingID == filingID && r.Status == model.ReviewPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReviews) List(_ context.Context, status string, _, _ int) ([]model.Review, int64, error) {
	var out []model.Review
	for _, r := range m.rows {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memReviews) Update(_ context.Context, r *model.Review) error {
	m.rows[r.ID] = *r
	return nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (m *memAudit) Log(_ context.Context, entry *model.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAudit) List(_ context.Context, filter repository.AuditFilter) ([]model.AuditLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AuditLog
	for _, e := range m.entries {
		if filter.EntityID != "" && e.EntityID != filter.EntityID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (m *memAudit) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

type memUsers struct {
	rows []model.User
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	m.rows = append(m.rows, *u)
	return nil
}

func (m *memUsers) find(match func(model.User) bool) (*model.User, error) {
	for _, u := range m.rows {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.ID.String() == id })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Email == email })
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Username == username })
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(event string, _ interface{}) {
	p.events = append(p.events, event)
}
