package service

import (
	"fmt"

	"salescrm/internal/model"
	"salescrm/internal/repository"

	"github.com/google/uuid"
)

// Actor is the authenticated caller as described by its access token.
type Actor struct {
	UserID         uuid.UUID
	Role           string
	BusinessUnitID *uuid.UUID
	SalesRepID     *uuid.UUID
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// Scope returns the visibility restriction for a: everything for ADMIN, the own business unit
// for MANAGER and the own sales for SALES_REP.
func (a Actor) Scope() (repository.Scope, error) {
	switch a.Role {
	case model.RoleAdmin:
		return repository.Scope{}, nil
	case model.RoleManager:
		if a.BusinessUnitID == nil {
			return repository.Scope{}, fmt.Errorf("%w: manager has no business unit", ErrForbidden)
		}
		return repository.Scope{BusinessUnitID: a.BusinessUnitID}, nil
	case model.RoleSalesRep:
		if a.SalesRepID == nil {
			return repository.Scope{}, fmt.Errorf("%w: user has no sales rep profile", ErrForbidden)
		}
		return repository.Scope{SalesRepID: a.SalesRepID}, nil
	default:
		return repository.Scope{}, fmt.Errorf("%w: unknown role %q", ErrForbidden, a.Role)
	}
}

// CanAccess reports whether a may see or modify a record owned by (businessUnitID, salesRepID).
func (a Actor) CanAccess(businessUnitID, salesRepID uuid.UUID) bool {
	switch a.Role {
	case model.RoleAdmin:
		return true
	case model.RoleManager:
		return a.BusinessUnitID != nil && *a.BusinessUnitID == businessUnitID
	case model.RoleSalesRep:
		return a.SalesRepID != nil && *a.SalesRepID == salesRepID
	}
	return false
}

func (a Actor) userRef() *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ErrValidation, field)
	}
	return id, nil
}
