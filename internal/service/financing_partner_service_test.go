package service

import (
	"context"
	"testing"

	"salescrm/internal/model"
	"salescrm/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFinancingPartner(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	ctx := context.Background()

	partner, err := e.partners.CreatePartner(ctx, CreateFinancingPartnerRequest{
		Name:            "First Solar Bank",
		BusinessUnitIDs: []string{f.Unit.ID.String()},
		ContactEmail:    "loans@fsb.example",
	})
	require.NoError(t, err)
	assert.Equal(t, model.FinancingPartnerBank, partner.PartnerType)
	assert.Equal(t, 100, partner.Priority)
	assert.True(t, partner.IsActive)
	require.Len(t, partner.BusinessUnits, 1)
	assert.Equal(t, "BU1", partner.BusinessUnits[0].Code)

	_, err = e.partners.CreatePartner(ctx, CreateFinancingPartnerRequest{Name: "First Solar Bank"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateFinancingPartnerValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateFinancingPartnerRequest
	}{
		{"missing name", CreateFinancingPartnerRequest{}},
		{"unknown type", CreateFinancingPartnerRequest{Name: "A", PartnerType: "BROKER"}},
		{"bad email", CreateFinancingPartnerRequest{Name: "A", ContactEmail: "not-an-email"}},
		{"unknown unit", CreateFinancingPartnerRequest{Name: "A", BusinessUnitIDs: []string{"bad"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.partners.CreatePartner(ctx, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUpdateFinancingPartnerReplacesUnits(t *testing.T) {
	e := newEnv(t)
	a := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	b := testutil.Seed(t, e.db, "BU2", testutil.DefaultRates)
	ctx := context.Background()

	partner, err := e.partners.CreatePartner(ctx, CreateFinancingPartnerRequest{
		Name:            "Coop",
		PartnerType:     model.FinancingPartnerCooperative,
		BusinessUnitIDs: []string{a.Unit.ID.String()},
	})
	require.NoError(t, err)

	units := []string{b.Unit.ID.String()}
	inactive := false
	updated, err := e.partners.UpdatePartner(ctx, partner.ID.String(), UpdateFinancingPartnerRequest{
		BusinessUnitIDs: &units,
		IsActive:        &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	require.Len(t, updated.BusinessUnits, 1)
	assert.Equal(t, b.Unit.ID, updated.BusinessUnits[0].ID)

	// Inactive partners are hidden from non-admins.
	visible, _, err := e.partners.GetPartners(ctx, manager(b.Unit.ID), FinancingPartnerFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, total, err := e.partners.GetPartners(ctx, admin(), FinancingPartnerFilter{BusinessUnitID: b.Unit.ID.String(), Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, all, 1)
	assert.Equal(t, "Coop", all[0].Name)

	empty := ""
	_, err = e.partners.UpdatePartner(ctx, partner.ID.String(), UpdateFinancingPartnerRequest{Name: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetPartnersScopesManagers(t *testing.T) {
	e := newEnv(t)
	a := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	b := testutil.Seed(t, e.db, "BU2", testutil.DefaultRates)
	ctx := context.Background()

	for name, unit := range map[string]string{"Alpha Bank": a.Unit.ID.String(), "Beta Bank": b.Unit.ID.String()} {
		_, err := e.partners.CreatePartner(ctx, CreateFinancingPartnerRequest{Name: name, BusinessUnitIDs: []string{unit}})
		require.NoError(t, err)
	}

	// A manager's own unit wins over the requested filter.
	partners, total, err := e.partners.GetPartners(ctx, manager(a.Unit.ID), FinancingPartnerFilter{BusinessUnitID: b.Unit.ID.String(), Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, partners, 1)
	assert.Equal(t, "Alpha Bank", partners[0].Name)

	require.NoError(t, e.partners.DeletePartner(ctx, partners[0].ID.String()))
	_, total, err = e.partners.GetPartners(ctx, admin(), FinancingPartnerFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
