package compensation

import (
	"testing"

	"salescrm/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func consistentSale() (*model.Sale, References) {
	unit := uuid.New()
	product := &model.Product{ID: uuid.New(), BusinessUnitID: unit}
	plan := &model.CompensationPlan{ID: uuid.New(), BusinessUnitID: unit, ProductID: product.ID}
	rep := &model.SalesRep{ID: uuid.New(), BusinessUnitID: unit}
	sale := &model.Sale{BusinessUnitID: unit, ProductID: product.ID, PlanID: plan.ID, SalesRepID: rep.ID}
	return sale, References{Product: product, Plan: plan, SalesRep: rep}
}

func TestValidateSale(t *testing.T) {
	sale, refs := consistentSale()
	assert.NoError(t, ValidateSale(sale, refs))
}

func TestValidateSaleRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.Sale, *References)
		msg    string
	}{
		{"plan of another product", func(s *model.Sale, r *References) { r.Plan.ProductID = uuid.New() }, "does not belong to this product"},
		{"product of another unit", func(s *model.Sale, r *References) { r.Product.BusinessUnitID = uuid.New() }, "product must belong"},
		{"rep of another unit", func(s *model.Sale, r *References) { r.SalesRep.BusinessUnitID = uuid.New() }, "sales rep must belong"},
		{"missing plan", func(s *model.Sale, r *References) { r.Plan = nil }, "required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sale, refs := consistentSale()
			tc.mutate(sale, &refs)
			err := ValidateSale(sale, refs)
			assert.ErrorIs(t, err, ErrConsistency)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
