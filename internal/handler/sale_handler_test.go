package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salescrm/internal/compensation"
	"salescrm/internal/middleware"
	"salescrm/internal/model"
	"salescrm/internal/service"
	"salescrm/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSaleService struct {
	mock.Mock
}

func (m *mockSaleService) CreateSale(ctx context.Context, actor service.Actor, req service.CreateSaleRequest) (service.SaleDetailResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(service.SaleDetailResponse), args.Error(1)
}

func (m *mockSaleService) UpdateSale(ctx context.Context, actor service.Actor, id string, req service.UpdateSaleRequest) (service.SaleDetailResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return args.Get(0).(service.SaleDetailResponse), args.Error(1)
}

func (m *mockSaleService) ChangeStatus(ctx context.Context, actor service.Actor, id string, status string) (service.SaleDetailResponse, error) {
	args := m.Called(ctx, actor, id, status)
	return args.Get(0).(service.SaleDetailResponse), args.Error(1)
}

func (m *mockSaleService) GetSale(ctx context.Context, actor service.Actor, id string) (service.SaleDetailResponse, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(service.SaleDetailResponse), args.Error(1)
}

func (m *mockSaleService) ListSales(ctx context.Context, actor service.Actor, filter service.SaleListFilter) ([]service.SaleResponse, int64, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]service.SaleResponse), args.Get(1).(int64), args.Error(2)
}

var secret = []byte("handler-secret")

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	return "Bearer " + token
}

func newSaleRouter(svc service.SaleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitAuth(secret)
	r := gin.New()
	NewSaleHandler(svc).RegisterRoutes(r.Group(""))
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestChangeStatusMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"missing tier", fmt.Errorf("compensate: %w", compensation.ErrConfiguration), http.StatusUnprocessableEntity, ""},
		{"missing rule", compensation.ErrRuleNotFound, http.StatusUnprocessableEntity, ""},
		{"inconsistent", compensation.ErrConsistency, http.StatusBadRequest, ""},
		{"bad transition", fmt.Errorf("%w: cannot move sale", service.ErrValidation), http.StatusBadRequest, ""},
		{"not visible", service.ErrNotFound, http.StatusNotFound, ""},
		{"database down", fmt.Errorf("failed to update sale: %w", context.DeadlineExceeded), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSaleService{}
			svc.On("ChangeStatus", mock.Anything, mock.Anything, "s1", model.SaleStatusConfirmed).
				Return(service.SaleDetailResponse{}, tt.err)

			req := httptest.NewRequest(http.MethodPatch, "/api/sales/s1/status", strings.NewReader(`{"status":"CONFIRMED"}`))
			req.Header.Set("Authorization", bearer(t, model.RoleManager))
			w := httptest.NewRecorder()
			newSaleRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			res := decode(t, w)
			assert.Equal(t, "error", res.Status)
			if tt.body != "" {
				assert.Equal(t, tt.body, res.Error)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestCreateSale(t *testing.T) {
	svc := &mockSaleService{}
	id := uuid.New()
	svc.On("CreateSale", mock.Anything, mock.MatchedBy(func(a service.Actor) bool {
		return a.Role == model.RoleAdmin
	}), mock.MatchedBy(func(req service.CreateSaleRequest) bool {
		return req.Status == model.SaleStatusConfirmed && req.Amount != nil && req.Amount.String() == "1000"
	})).Return(service.SaleDetailResponse{SaleResponse: service.SaleResponse{ID: id, Status: model.SaleStatusConfirmed}}, nil)

	body := `{"business_unit_id":"a","sales_rep_id":"b","product_id":"c","plan_id":"d","amount":"1000.00","status":"CONFIRMED"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, model.RoleAdmin))
	w := httptest.NewRecorder()
	newSaleRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	res := decode(t, w)
	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, id.String(), data["id"])
	svc.AssertExpectations(t)
}

func TestListSalesPaginates(t *testing.T) {
	svc := &mockSaleService{}
	svc.On("ListSales", mock.Anything, mock.Anything, service.SaleListFilter{Status: model.SaleStatusPending, Page: 2, Limit: 5}).
		Return([]service.SaleResponse{}, int64(7), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/sales?status=PENDING&page=2&limit=5", nil)
	req.Header.Set("Authorization", bearer(t, model.RoleSalesRep))
	w := httptest.NewRecorder()
	newSaleRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)
	require.NotNil(t, res.Pagination)
	assert.Equal(t, int64(7), res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.Page)
	assert.Equal(t, 2, res.Pagination.TotalPages)
	svc.AssertExpectations(t)
}

func TestSalesRequireToken(t *testing.T) {
	svc := &mockSaleService{}
	w := httptest.NewRecorder()
	newSaleRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sales", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "ListSales", mock.Anything, mock.Anything, mock.Anything)
}
