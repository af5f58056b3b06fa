package compensation

import (
	"fmt"

	"salescrm/internal/model"
)

// References bundles the rows a sale points at, loaded by the caller before validation.
type References struct {
	Product  *model.Product
	Plan     *model.CompensationPlan
	SalesRep *model.SalesRep
}

// ValidateSale checks the cross-entity invariants a sale must satisfy before any write.
func ValidateSale(sale *model.Sale, refs References) error {
	if refs.Product == nil || refs.Plan == nil || refs.SalesRep == nil {
		return fmt.Errorf("%w: product, plan and sales rep are required", ErrConsistency)
	}
	if refs.Plan.ProductID != sale.ProductID {
		return fmt.Errorf("%w: the selected compensation plan does not belong to this product", ErrConsistency)
	}
	if refs.Product.BusinessUnitID != sale.BusinessUnitID {
		return fmt.Errorf("%w: product must belong to the same business unit as the sale", ErrConsistency)
	}
	if refs.SalesRep.BusinessUnitID != sale.BusinessUnitID {
		return fmt.Errorf("%w: sales rep must belong to the same business unit as the sale", ErrConsistency)
	}
	return nil
}
