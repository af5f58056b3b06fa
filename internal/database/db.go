package database

import (
	"fmt"
	"time"

	"salescrm/internal/logger"
	"salescrm/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string, opts Options, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.NewGormLogger(log, gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.BusinessUnit{},
		&model.Product{},
		&model.Tier{},
		&model.SalesRep{},
		&model.CompensationPlan{},
		&model.PlanTierRule{},
		&model.Sale{},
		&model.Commission{},
		&model.RewardPoint{},
		&model.Prize{},
		&model.Redemption{},
		&model.CallLog{},
		&model.FinancingPartner{},
		&model.Lead{},
		&model.FinancialReport{},
		&model.AuditLog{},
	}
}

// Migrate auto-migrates core models. The unique indexes on commissions.sale_id and
// reward_points.sale_id are created here and must exist before any sale is confirmed.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return nil
}
