package service

import (
	"context"
	"errors"
	"testing"

	"taxreturn/internal/calc"
	"taxreturn/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	filingFixture
	reviews *memReviews
	svc     ReviewService
}

func newReviewFixture() reviewFixture {
	f := reviewFixture{filingFixture: newFilingFixture(), reviews: newMemReviews()}
	f.svc = NewReviewService(f.reviews, f.filings, f.audit, inlineTx{}, NewTaxService(calc.DefaultParams()), f.published, nil)
	return f
}

func (f reviewFixture) filingStatus(t *testing.T, id string) string {
	t.Helper()
	stored, err := f.filings.FindByID(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)
	return stored.Status
}

func TestReviewService_RequestAndApprove(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	owner := taxpayer()
	accountant := Actor{ID: uuid.New(), Role: model.RoleAccountant}

	filing, err := f.filingFixture.svc.Create(ctx, owner, CreateFilingRequest{Declaration: []byte(employmentJSON)})
	require.NoError(t, err)

	review, err := f.svc.RequestReview(ctx, owner, filing.ID, RequestReviewRequest{Note: "please check"})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewPending, review.Status)
	assert.Equal(t, 100, review.ReadinessScore)
	assert.Equal(t, "please check", review.Note)
	require.Len(t, review.Summary.Sections, 1)
	assert.Equal(t, model.FilingInReview, f.filingStatus(t, filing.ID))

	_, err = f.svc.RequestReview(ctx, owner, filing.ID, RequestReviewRequest{})
	assert.True(t, errors.Is(err, ErrReviewAlreadyPending))

	approved, err := f.svc.ApproveReview(ctx, accountant, review.ID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, accountant.ID.String(), *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, model.FilingApproved, f.filingStatus(t, filing.ID))

	_, err = f.svc.RejectReview(ctx, accountant, review.ID, "too late")
	assert.True(t, errors.Is(err, ErrReviewNotPending))

	assert.Equal(t, []string{
		model.ActionCreateFiling,
		model.ActionRequestReview,
		model.ActionApproveReview,
	}, f.audit.actions())
}

func TestReviewService_RejectReturnsFilingToTaxpayer(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	owner := taxpayer()
	accountant := Actor{ID: uuid.New(), Role: model.RoleAccountant}

	filing, err := f.filingFixture.svc.Create(ctx, owner, CreateFilingRequest{Declaration: []byte(employmentJSON)})
	require.NoError(t, err)
	review, err := f.svc.RequestReview(ctx, owner, filing.ID, RequestReviewRequest{})
	require.NoError(t, err)

	rejected, err := f.svc.RejectReview(ctx, accountant, review.ID, "missing employer statement")
	require.NoError(t, err)
	assert.Equal(t, "missing employer statement", rejected.Comment)
	assert.Equal(t, model.FilingRejected, f.filingStatus(t, filing.ID))

	// A rejected filing can be edited and handed off again.
	_, err = f.filingFixture.svc.Update(ctx, owner, filing.ID, UpdateFilingRequest{Declaration: []byte(employmentJSON)})
	require.NoError(t, err)
	_, err = f.svc.RequestReview(ctx, owner, filing.ID, RequestReviewRequest{})
	require.NoError(t, err)

	pending, total, err := f.svc.ListReviews(ctx, ReviewFilter{Status: model.ReviewPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, pending, 1)
}

func TestReviewService_RequestChecksAccess(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	filing, err := f.filingFixture.svc.Create(ctx, taxpayer(), CreateFilingRequest{Declaration: []byte(employmentJSON)})
	require.NoError(t, err)

	_, err = f.svc.RequestReview(ctx, taxpayer(), filing.ID, RequestReviewRequest{})
	assert.True(t, errors.Is(err, ErrFilingNotFound))

	_, err = f.svc.ApproveReview(ctx, Actor{ID: uuid.New(), Role: model.RoleAccountant}, uuid.NewString(), "")
	assert.True(t, errors.Is(err, ErrReviewNotFound))
}
