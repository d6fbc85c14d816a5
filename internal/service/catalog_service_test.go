package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogRepository is a mock implementation of CatalogRepository.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetProducts(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetVariantsByProduct(ctx context.Context, productID int64) ([]model.Variant, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Variant), args.Error(1)
}

func (m *MockCatalogRepository) GetVariantsByIDs(ctx context.Context, ids []int64) ([]model.Variant, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Variant), args.Error(1)
}

// MockSaleRepository is a mock implementation of SaleRepository.
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) GetActiveSaleForProduct(ctx context.Context, productID int64, at time.Time) (*model.Sale, error) {
	args := m.Called(ctx, productID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleRepository) UpsertCampaign(ctx context.Context, tx pgx.Tx, sale *model.Sale, productIDs []int64) error {
	args := m.Called(ctx, tx, sale, productIDs)
	return args.Error(0)
}

func TestCatalogService_GetProducts(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	products := []model.Product{
		{ID: 7, Name: "T-Shirt", CreatedAt: time.Now()},
	}
	variants := []model.Variant{
		{ID: 42, ProductID: 7, SKU: "TS-RED-M", Price: 100.00, Quantity: 10},
	}
	sale := &model.Sale{
		ID:            3,
		Name:          "spring",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 20,
	}

	mockCatalogRepo := new(MockCatalogRepository)
	mockSaleRepo := new(MockSaleRepository)

	service := NewCatalogService(mockCatalogRepo, mockSaleRepo, logger)

	mockCatalogRepo.On("GetProducts", ctx, 10, 0).Return(products, nil)
	mockCatalogRepo.On("GetVariantsByProduct", ctx, int64(7)).Return(variants, nil)
	mockSaleRepo.On("GetActiveSaleForProduct", ctx, int64(7), mock.AnythingOfType("time.Time")).Return(sale, nil)

	views, err := service.GetProducts(ctx, 0, 0)

	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Variants, 1)
	assert.Equal(t, 100.00, views[0].Variants[0].Price)
	assert.Equal(t, 80.00, views[0].Variants[0].EffectivePrice)
	require.NotNil(t, views[0].Sale)
	assert.Equal(t, int64(3), views[0].Sale.ID)

	mockCatalogRepo.AssertExpectations(t)
	mockSaleRepo.AssertExpectations(t)
}

func TestCatalogService_GetProducts_LimitClamped(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockCatalogRepo := new(MockCatalogRepository)
	mockSaleRepo := new(MockSaleRepository)

	service := NewCatalogService(mockCatalogRepo, mockSaleRepo, logger)

	mockCatalogRepo.On("GetProducts", ctx, 100, 0).Return([]model.Product{}, nil)

	views, err := service.GetProducts(ctx, 5000, -3)

	require.NoError(t, err)
	assert.Empty(t, views)
	mockCatalogRepo.AssertExpectations(t)
}

func TestCatalogService_GetProductByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	product := &model.Product{ID: 7, Name: "T-Shirt", CreatedAt: time.Now()}
	variants := []model.Variant{
		{ID: 42, ProductID: 7, SKU: "TS-RED-M", Price: 25.00, Quantity: 10},
		{ID: 43, ProductID: 7, SKU: "TS-RED-L", Price: 25.00, Quantity: 0},
	}

	tests := []struct {
		name        string
		id          int64
		mockProduct *model.Product
		mockError   error
		expectNil   bool
		expectError bool
	}{
		{
			name:        "Success without sale",
			id:          7,
			mockProduct: product,
		},
		{
			name:      "Product not found",
			id:        99,
			expectNil: true,
		},
		{
			name:        "Invalid id",
			id:          0,
			expectError: true,
		},
		{
			name:        "Repository error",
			id:          7,
			mockError:   errors.New("database error"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCatalogRepo := new(MockCatalogRepository)
			mockSaleRepo := new(MockSaleRepository)

			service := NewCatalogService(mockCatalogRepo, mockSaleRepo, logger)

			if tt.id > 0 {
				mockCatalogRepo.On("GetProductByID", ctx, tt.id).Return(tt.mockProduct, tt.mockError)
			}
			if tt.mockProduct != nil {
				mockSaleRepo.On("GetActiveSaleForProduct", ctx, tt.id, mock.AnythingOfType("time.Time")).Return(nil, nil)
				mockCatalogRepo.On("GetVariantsByProduct", ctx, tt.id).Return(variants, nil)
			}

			view, err := service.GetProductByID(ctx, tt.id)

			if tt.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, view)
				return
			}

			require.NotNil(t, view)
			assert.Equal(t, tt.id, view.ID)
			require.Len(t, view.Variants, 2)
			// No active sale: effective price equals base price
			assert.Equal(t, 25.00, view.Variants[0].EffectivePrice)
			assert.Nil(t, view.Sale)
		})
	}
}
