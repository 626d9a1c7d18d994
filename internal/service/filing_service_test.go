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

type filingFixture struct {
	svc       FilingService
	filings   *memFilings
	audit     *memAudit
	published *recordingPublisher
}

func newFilingFixture() filingFixture {
	f := filingFixture{
		filings:   newMemFilings(),
		audit:     &memAudit{},
		published: &recordingPublisher{},
	}
	f.svc = NewFilingService(f.filings, f.audit, inlineTx{}, NewTaxService(calc.DefaultParams()), f.published, nil)
	return f
}

func taxpayer() Actor {
	return Actor{ID: uuid.New(), Role: model.RoleTaxpayer}
}

func TestFilingService_CreateStoresDerivedColumns(t *testing.T) {
	f := newFilingFixture()
	ctx := context.Background()
	owner := taxpayer()

	resp, err := f.svc.Create(ctx, owner, CreateFilingRequest{Declaration: []byte(employmentJSON)})
	require.NoError(t, err)

	assert.Equal(t, "DPFO 2025", resp.Title)
	assert.Equal(t, model.FilingDraft, resp.Status)
	assert.Equal(t, "0.00", resp.TaxToPay)
	assert.Equal(t, "568.68", resp.TaxToRefund)
	assert.Equal(t, 100, resp.ReadinessScore)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "1431.32", resp.Result.Tax)
	require.NotNil(t, resp.OwnerID)
	assert.Equal(t, owner.ID.String(), *resp.OwnerID)

	assert.Equal(t, []string{model.ActionCreateFiling}, f.audit.actions())
	assert.Equal(t, []string{EventFilingUpdated}, f.published.events)
}

func TestFilingService_CreateRejectsBrokenDeclaration(t *testing.T) {
	f := newFilingFixture()
	_, err := f.svc.Create(context.Background(), taxpayer(), CreateFilingRequest{Declaration: []byte("{")})
	assert.True(t, errors.Is(err, ErrInvalidDeclaration))
	assert.Empty(t, f.audit.actions())
}

func TestFilingService_OwnershipIsolation(t *testing.T) {
	f := newFilingFixture()
	ctx := context.Background()
	owner, other := taxpayer(), taxpayer()
	accountant := Actor{ID: uuid.New(), Role: model.RoleAccountant}

	created, err := f.svc.Create(ctx, owner, CreateFilingRequest{Title: "mine", Declaration: []byte(employmentJSON)})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, other, created.ID)
	assert.True(t, errors.Is(err, ErrFilingNotFound))
	assert.True(t, errors.Is(f.svc.Delete(ctx, other, created.ID), ErrFilingNotFound))

	got, err := f.svc.Get(ctx, accountant, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
	require.NotNil(t, got.Declaration)
	assert.Equal(t, "15000", got.Declaration.Employment.GrossIncome)

	list, total, err := f.svc.List(ctx, other, FilingFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	list, total, err = f.svc.List(ctx, accountant, FilingFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Nil(t, list[0].Declaration)
}

func TestFilingService_UpdateRecomputes(t *testing.T) {
	f := newFilingFixture()
	ctx := context.Background()
	owner := taxpayer()

	created, err := f.svc.Create(ctx, owner, CreateFilingRequest{Declaration: []byte(employmentJSON)})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, owner, created.ID, UpdateFilingRequest{
		Title: "after prepayment fix",
		Declaration: []byte(`{
			"personal_info": {"rodne_cislo": "850101/1234"},
			"employment": {"enabled": true, "gross_income": "15000", "insurance_deduction": "1500", "prepayments": "0"}
		}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "after prepayment fix", updated.Title)
	assert.Equal(t, "1431.32", updated.TaxToPay)
	assert.Equal(t, "0.00", updated.TaxToRefund)
	assert.Equal(t, 95, updated.ReadinessScore)

	stored, err := f.filings.FindByID(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "1431.32", stored.TaxToPay.StringFixed(2))
	assert.Equal(t, []string{model.ActionCreateFiling, model.ActionUpdateFiling}, f.audit.actions())
}

func TestFilingService_UpdateLockedWhileInReview(t *testing.T) {
	f := newFilingFixture()
	ctx := context.Background()
	owner := taxpayer()

	created, err := f.svc.Create(ctx, owner, CreateFilingRequest{Declaration: []byte(employmentJSON)})
	require.NoError(t, err)

	stored, _ := f.filings.FindByID(ctx, uuid.MustParse(created.ID))
	stored.Status = model.FilingInReview
	require.NoError(t, f.filings.Update(ctx, stored))

	_, err = f.svc.Update(ctx, owner, created.ID, UpdateFilingRequest{Declaration: []byte(employmentJSON)})
	assert.True(t, errors.Is(err, ErrFilingInReview))
}

func TestFilingService_Delete(t *testing.T) {
	f := newFilingFixture()
	ctx := context.Background()
	owner := taxpayer()

	created, err := f.svc.Create(ctx, owner, CreateFilingRequest{Declaration: []byte(employmentJSON)})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, owner, created.ID))
	_, err = f.svc.Get(ctx, owner, created.ID)
	assert.True(t, errors.Is(err, ErrFilingNotFound))
	assert.Equal(t, []string{EventFilingUpdated, EventFilingDeleted}, f.published.events)

	assert.True(t, errors.Is(f.svc.Delete(ctx, owner, "not-a-uuid"), ErrFilingNotFound))
}

func TestFilingService_ExportImportRoundTrip(t *testing.T) {
	f := newFilingFixture()
	ctx := context.Background()
	owner := taxpayer()

	created, err := f.svc.Create(ctx, owner, CreateFilingRequest{Declaration: []byte(employmentJSON)})
	require.NoError(t, err)

	data, err := f.svc.ExportXML(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<r36>15000.00</r36>")

	imported, err := f.svc.ImportXML(ctx, owner, "imported", data)
	require.NoError(t, err)
	assert.Equal(t, created.Result, imported.Result)
	assert.Equal(t, "imported", imported.Title)

	assert.Equal(t, []string{model.ActionCreateFiling, model.ActionExportFiling, model.ActionImportFiling}, f.audit.actions())

	_, err = f.svc.ImportXML(ctx, owner, "", []byte("<dokument>"))
	assert.True(t, errors.Is(err, ErrInvalidDeclaration))
}

func TestFilingService_Summary(t *testing.T) {
	f := newFilingFixture()
	ctx := context.Background()
	owner := taxpayer()

	created, err := f.svc.Create(ctx, owner, CreateFilingRequest{Declaration: []byte(`{"employment": {"enabled": true, "gross_income": "15000", "insurance_deduction": "1500"}}`)})
	require.NoError(t, err)

	summary, err := f.svc.Summary(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, summary.ReadinessScore)
	require.Len(t, summary.Warnings, 2)
	assert.Equal(t, "PERSONAL_ID_MISSING", summary.Warnings[0].Code)
	assert.Equal(t, "TAX_UNDERPAYMENT", summary.Warnings[1].Code)
	require.Len(t, summary.Sections, 1)
	assert.Equal(t, "employment", summary.Sections[0].Name)
}
