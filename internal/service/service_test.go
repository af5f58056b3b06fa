package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"salescrm/internal/cache"
	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// memoryCache is an in-process cache.Cache that records invalidations.
type memoryCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	gets        int
	hits        int
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	c.hits++
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, prefix)
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

// env wires every service over one in-memory database.
type env struct {
	db        *gorm.DB
	events    *recordingPublisher
	cache     *memoryCache
	sales     SaleService
	comp      CompensationService
	catalog   CatalogService
	rewards   RewardService
	callLogs  CallLogService
	partners  FinancingPartnerService
	dashboard DashboardService
	audit     AuditService
	leads     LeadService
	reports   FinancialReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := zap.NewNop()

	txManager := repository.NewTransactionManager(db)
	auditRepo := repository.NewAuditRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	salesRepRepo := repository.NewSalesRepRepository(db)
	ruleRepo := repository.NewPlanTierRuleRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	rewardPointRepo := repository.NewRewardPointRepository(db)

	e := &env{db: db, events: &recordingPublisher{}, cache: newMemoryCache()}
	e.comp = NewCompensationService(salesRepRepo, ruleRepo, commissionRepo, rewardPointRepo, auditRepo, txManager, log)
	e.sales = NewSaleService(SaleServiceDeps{
		SaleRepo:        saleRepo,
		CatalogRepo:     catalogRepo,
		SalesRepRepo:    salesRepRepo,
		CommissionRepo:  commissionRepo,
		RewardPointRepo: rewardPointRepo,
		AuditRepo:       auditRepo,
		Compensation:    e.comp,
		TxManager:       txManager,
		Events:          e.events,
		Cache:           e.cache,
		Log:             log,
	})
	e.catalog = NewCatalogService(catalogRepo, salesRepRepo, ruleRepo, auditRepo, txManager)
	e.rewards = NewRewardService(salesRepRepo, rewardPointRepo, repository.NewPrizeRepository(db), repository.NewRedemptionRepository(db), catalogRepo, auditRepo, txManager)
	e.callLogs = NewCallLogService(repository.NewCallLogRepository(db), salesRepRepo, saleRepo)
	e.partners = NewFinancingPartnerService(repository.NewFinancingPartnerRepository(db), catalogRepo, txManager)
	e.dashboard = NewDashboardService(repository.NewDashboardRepository(db), repository.NewReportRepository(db), e.cache, time.Minute, log)
	e.audit = NewAuditService(auditRepo)
	e.leads = NewLeadService(repository.NewLeadRepository(db), salesRepRepo, catalogRepo, auditRepo, txManager)
	e.reports = NewFinancialReportService(repository.NewFinancialReportRepository(db), repository.NewDashboardRepository(db), catalogRepo, auditRepo, txManager)
	return e
}

func admin() Actor {
	return Actor{UserID: uuid.New(), Role: model.RoleAdmin}
}

func manager(unitID uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), Role: model.RoleManager, BusinessUnitID: &unitID}
}

func salesRep(rep model.SalesRep) Actor {
	unitID, repID := rep.BusinessUnitID, rep.ID
	return Actor{UserID: rep.UserID, Role: model.RoleSalesRep, BusinessUnitID: &unitID, SalesRepID: &repID}
}

func amount(t *testing.T, s string) *decimal.Decimal {
	d := testutil.Dec(t, s)
	return &d
}

func saleRequest(t *testing.T, f testutil.Fixture, value, status string) CreateSaleRequest {
	return CreateSaleRequest{
		BusinessUnitID: f.Unit.ID.String(),
		SalesRepID:     f.Rep.ID.String(),
		ProductID:      f.Product.ID.String(),
		PlanID:         f.Plan.ID.String(),
		Amount:         amount(t, value),
		Status:         status,
	}
}

func auditCount(t *testing.T, db *gorm.DB, action, entityID string) int64 {
	return testutil.Count(t, db, &model.AuditLog{}, "action = ? AND entity_id = ?", action, entityID)
}
