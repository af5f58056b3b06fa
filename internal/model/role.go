package model

// Roles carried in access tokens issued by the identity service.
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleSalesRep = "SALES_REP"
)
