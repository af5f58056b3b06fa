// Package testutil provides in-memory databases and seeded fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"salescrm/internal/database"
	"salescrm/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema migrated.
// A single connection keeps every statement, including those inside a transaction, on one handle.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Dec parses a decimal literal, failing the test on bad input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// Fixture is a consistent catalog: one business unit with a product, a plan on that product,
// a tier with a rule for the plan, and a sales rep in that tier.
type Fixture struct {
	Unit    model.BusinessUnit
	Product model.Product
	Plan    model.CompensationPlan
	Tier    model.Tier
	Rule    model.PlanTierRule
	Rep     model.SalesRep
}

// RuleRates are the percentages and points multiplier seeded into the fixture rule.
type RuleRates struct {
	Commission string
	Bonus      string
	Points     string
}

// DefaultRates is 10% commission, 2% bonus and 0.10 points per dollar.
var DefaultRates = RuleRates{Commission: "10.00", Bonus: "2.00", Points: "0.10"}

// Seed creates a Fixture with the given rates. code must be unique within the database.
func Seed(t *testing.T, db *gorm.DB, code string, rates RuleRates) Fixture {
	t.Helper()

	f := Fixture{}
	f.Unit = model.BusinessUnit{Name: "Unit " + code, Code: code, IsActive: true}
	require.NoError(t, db.Create(&f.Unit).Error)

	f.Product = model.Product{
		BusinessUnitID: f.Unit.ID,
		Name:           "Panel " + code,
		SKU:            "SKU-" + code,
		Price:          Dec(t, "1000.00"),
		IsActive:       true,
	}
	require.NoError(t, db.Create(&f.Product).Error)

	f.Plan = model.CompensationPlan{BusinessUnitID: f.Unit.ID, ProductID: f.Product.ID, Name: "PPA", IsActive: true}
	require.NoError(t, db.Create(&f.Plan).Error)

	var rank int64
	require.NoError(t, db.Model(&model.Tier{}).Count(&rank).Error)
	f.Tier = model.Tier{Name: "Senior " + code, Rank: int(rank) + 1}
	require.NoError(t, db.Create(&f.Tier).Error)

	f.Rule = model.PlanTierRule{
		PlanID:            f.Plan.ID,
		TierID:            f.Tier.ID,
		CommissionPercent: Dec(t, rates.Commission),
		BonusPercent:      Dec(t, rates.Bonus),
		PointsPerDollar:   Dec(t, rates.Points),
	}
	require.NoError(t, db.Create(&f.Rule).Error)

	tierID := f.Tier.ID
	f.Rep = model.SalesRep{
		UserID:         uuid.New(),
		BusinessUnitID: f.Unit.ID,
		TierID:         &tierID,
		DisplayName:    "Rep " + code,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&f.Rep).Error)

	return f
}

// NewRep adds another rep to unit, optionally without a tier.
func NewRep(t *testing.T, db *gorm.DB, unitID uuid.UUID, tierID *uuid.UUID, name string) model.SalesRep {
	t.Helper()
	rep := model.SalesRep{UserID: uuid.New(), BusinessUnitID: unitID, TierID: tierID, DisplayName: name, IsActive: true}
	require.NoError(t, db.Create(&rep).Error)
	return rep
}

// Count returns the number of rows of the given model matching the optional condition.
func Count(t *testing.T, db *gorm.DB, value interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(value)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
