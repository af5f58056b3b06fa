package service

import (
	"context"
	"testing"

	"salescrm/internal/model"
	"salescrm/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeadByRole(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	other := testutil.Seed(t, e.db, "BU2", testutil.DefaultRates)
	ctx := context.Background()

	// A sales rep always owns the lead, whatever the request says.
	mine, err := e.leads.CreateLead(ctx, salesRep(f.Rep), CreateLeadRequest{
		FullName:   "  Ada Buyer ",
		Email:      "ada@example.com",
		SalesRepID: other.Rep.ID.String(),
		Source:     "web",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Buyer", mine.FullName)
	assert.Equal(t, f.Unit.ID, mine.BusinessUnitID)
	require.NotNil(t, mine.SalesRepID)
	assert.Equal(t, f.Rep.ID, *mine.SalesRepID)

	open, err := e.leads.CreateLead(ctx, manager(f.Unit.ID), CreateLeadRequest{FullName: "Walk In"})
	require.NoError(t, err)
	assert.Nil(t, open.SalesRepID)
	assert.Equal(t, f.Unit.ID, open.BusinessUnitID)

	_, err = e.leads.CreateLead(ctx, manager(f.Unit.ID), CreateLeadRequest{FullName: "X", BusinessUnitID: other.Unit.ID.String()})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.leads.CreateLead(ctx, manager(f.Unit.ID), CreateLeadRequest{FullName: "X", SalesRepID: other.Rep.ID.String()})
	assert.ErrorIs(t, err, ErrValidation, "rep of another unit")

	byAdmin, err := e.leads.CreateLead(ctx, admin(), CreateLeadRequest{FullName: "Referral", BusinessUnitID: other.Unit.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, other.Unit.ID, byAdmin.BusinessUnitID)

	assert.Equal(t, int64(3), testutil.Count(t, e.db, &model.Lead{}, ""))
	assert.Equal(t, int64(1), auditCount(t, e.db, model.ActionCreateLead, mine.ID.String()))
}

func TestCreateLeadValidation(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor Actor
		req   CreateLeadRequest
		err   error
	}{
		{"blank name", manager(f.Unit.ID), CreateLeadRequest{FullName: "   "}, ErrValidation},
		{"bad email", manager(f.Unit.ID), CreateLeadRequest{FullName: "A", Email: "nope"}, ErrValidation},
		{"admin without unit", admin(), CreateLeadRequest{FullName: "A"}, ErrValidation},
		{"admin with unknown unit", admin(), CreateLeadRequest{FullName: "A", BusinessUnitID: uuid.NewString()}, ErrValidation},
		{"manager without unit", Actor{UserID: uuid.New(), Role: model.RoleManager}, CreateLeadRequest{FullName: "A"}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.leads.CreateLead(ctx, tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Zero(t, testutil.Count(t, e.db, &model.Lead{}, ""))
}

func TestListLeadsIsScoped(t *testing.T) {
	e := newEnv(t)
	a := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	b := testutil.Seed(t, e.db, "BU2", testutil.DefaultRates)
	colleague := testutil.NewRep(t, e.db, a.Unit.ID, &a.Tier.ID, "Colleague")
	ctx := context.Background()

	create := func(actor Actor, name, source string) {
		_, err := e.leads.CreateLead(ctx, actor, CreateLeadRequest{FullName: name, Source: source})
		require.NoError(t, err)
	}
	create(salesRep(a.Rep), "A1", "web")
	create(salesRep(colleague), "A2", "fair")
	create(manager(a.Unit.ID), "A3", "web")
	create(salesRep(b.Rep), "B1", "web")

	list := func(actor Actor, filter LeadListFilter) []model.Lead {
		filter.Page, filter.Limit = 1, 10
		leads, total, err := e.leads.ListLeads(ctx, actor, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(len(leads)), total)
		return leads
	}

	assert.Len(t, list(admin(), LeadListFilter{}), 4)
	assert.Len(t, list(manager(a.Unit.ID), LeadListFilter{}), 3)
	assert.Len(t, list(manager(a.Unit.ID), LeadListFilter{Source: "web"}), 2)

	unassigned := list(manager(a.Unit.ID), LeadListFilter{Unassigned: true})
	require.Len(t, unassigned, 1)
	assert.Equal(t, "A3", unassigned[0].FullName)

	own := list(salesRep(a.Rep), LeadListFilter{})
	require.Len(t, own, 1)
	assert.Equal(t, "A1", own[0].FullName)

	_, _, err := e.leads.ListLeads(ctx, Actor{Role: model.RoleSalesRep}, LeadListFilter{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAssignLead(t *testing.T) {
	e := newEnv(t)
	a := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	b := testutil.Seed(t, e.db, "BU2", testutil.DefaultRates)
	ctx := context.Background()

	lead, err := e.leads.CreateLead(ctx, manager(a.Unit.ID), CreateLeadRequest{FullName: "Open Lead"})
	require.NoError(t, err)
	id := lead.ID.String()

	_, err = e.leads.AssignLead(ctx, manager(b.Unit.ID), id, AssignLeadRequest{SalesRepID: b.Rep.ID.String()})
	assert.ErrorIs(t, err, ErrNotFound, "managers cannot reach other units' leads")

	_, err = e.leads.AssignLead(ctx, admin(), id, AssignLeadRequest{SalesRepID: b.Rep.ID.String()})
	assert.ErrorIs(t, err, ErrValidation, "rep must work in the lead's unit")

	_, err = e.leads.AssignLead(ctx, salesRep(a.Rep), id, AssignLeadRequest{SalesRepID: a.Rep.ID.String()})
	assert.ErrorIs(t, err, ErrForbidden)

	assigned, err := e.leads.AssignLead(ctx, manager(a.Unit.ID), id, AssignLeadRequest{SalesRepID: a.Rep.ID.String()})
	require.NoError(t, err)
	require.NotNil(t, assigned.SalesRepID)
	assert.Equal(t, a.Rep.ID, *assigned.SalesRepID)
	assert.Equal(t, int64(1), auditCount(t, e.db, model.ActionAssignLead, id))

	// The rep now sees the lead.
	leads, _, err := e.leads.ListLeads(ctx, salesRep(a.Rep), LeadListFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, lead.ID, leads[0].ID)

	_, err = e.leads.AssignLead(ctx, admin(), uuid.NewString(), AssignLeadRequest{SalesRepID: a.Rep.ID.String()})
	assert.ErrorIs(t, err, ErrNotFound)
}
