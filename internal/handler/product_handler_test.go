package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetProducts(ctx context.Context, limit, offset int) ([]model.ProductView, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductView), args.Error(1)
}

func (m *MockCatalogService) GetProductByID(ctx context.Context, id int64) (*model.ProductView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductView), args.Error(1)
}

func TestProductHandler_GetAll(t *testing.T) {
	logger := zerolog.Nop()

	views := []model.ProductView{
		{
			Product: model.Product{ID: 7, Name: "T-Shirt"},
			Variants: []model.VariantView{
				{
					Variant:        model.Variant{ID: 42, ProductID: 7, SKU: "TS-RED-M", Price: 25.00, Quantity: 10},
					EffectivePrice: 20.00,
				},
			},
		},
	}

	tests := []struct {
		name           string
		method         string
		url            string
		mockLimit      int
		mockOffset     int
		mockReturn     []model.ProductView
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success with defaults",
			method:         http.MethodGet,
			url:            "/api/products",
			mockLimit:      10,
			mockOffset:     0,
			mockReturn:     views,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Success with pagination",
			method:         http.MethodGet,
			url:            "/api/products?limit=5&offset=20",
			mockLimit:      5,
			mockOffset:     20,
			mockReturn:     []model.ProductView{},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid limit",
			method:         http.MethodGet,
			url:            "/api/products?limit=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid offset",
			method:         http.MethodGet,
			url:            "/api/products?offset=xyz",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			method:         http.MethodGet,
			url:            "/api/products",
			mockLimit:      10,
			mockOffset:     0,
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			url:            "/api/products",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCatalogService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetProducts", mock.Anything, tt.mockLimit, tt.mockOffset).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			handler.GetAll(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK && len(tt.mockReturn) > 0 {
				var resp []model.ProductView
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				require.Len(t, resp, 1)
				assert.Equal(t, int64(7), resp[0].ID)
				require.Len(t, resp[0].Variants, 1)
				assert.Equal(t, 20.00, resp[0].Variants[0].EffectivePrice)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	view := &model.ProductView{
		Product: model.Product{ID: 7, Name: "T-Shirt"},
	}

	tests := []struct {
		name           string
		url            string
		mockID         int64
		mockReturn     *model.ProductView
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			url:            "/api/products/7",
			mockID:         7,
			mockReturn:     view,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Not found",
			url:            "/api/products/99",
			mockID:         99,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Invalid id",
			url:            "/api/products/abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing id",
			url:            "/api/products/",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCatalogService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetProductByID", mock.Anything, tt.mockID).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			handler.GetByID(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}
