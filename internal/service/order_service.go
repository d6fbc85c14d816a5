package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService. It orchestrates order writes as one
// transaction: stock reservation, persistence and header updates either all
// commit or all roll back.
type orderService struct {
	store       repository.TxRunner
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
	inventory   repository.InventoryRepository
	saleRepo    repository.SaleRepository
	policy      pricing.Policy
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	store repository.TxRunner,
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	inventory repository.InventoryRepository,
	saleRepo repository.SaleRepository,
	policy pricing.Policy,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		store:       store,
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		inventory:   inventory,
		saleRepo:    saleRepo,
		policy:      policy,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Create places a new order. Stock is reserved per line item inside the same
// transaction that persists the order, so a shortfall on any line rolls back
// every reservation taken before it.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	items, total, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	if !s.policy.WithinTolerance(req.DeclaredTotal, total) {
		s.logger.Warn().
			Float64("declared", req.DeclaredTotal).
			Float64("computed", total).
			Msg("declared total rejected")
		return nil, model.NewValidationError("declaredTotal",
			fmt.Sprintf("declared total %.2f does not match computed total %.2f", req.DeclaredTotal, total))
	}

	status := req.Status
	if status == "" {
		status = model.OrderStatusPending
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		ClientName:      req.ClientName,
		Phone:           req.Phone,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
		Status:          status,
		TotalAmount:     total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = order.ID
	}

	err = s.store.WithTx(ctx, func(tx pgx.Tx) error {
		for _, item := range items {
			if err := s.inventory.Reserve(ctx, tx, item.VariantID, item.Quantity); err != nil {
				return err
			}
		}

		if err := s.orderRepo.InsertOrder(ctx, tx, order); err != nil {
			return err
		}

		return s.orderRepo.InsertOrderItems(ctx, tx, items)
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("order creation rolled back")
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Float64("total", total).
		Msg("order created")

	return orderResponse(order, items), nil
}

// Update replaces an order's line items and header. Old reservations are
// released before new ones are taken, inside the same transaction, so moving
// an order between variants of the same product never spuriously reports
// insufficient stock for units it is simultaneously freeing.
func (s *orderService) Update(ctx context.Context, id uuid.UUID, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	items, total, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	if !s.policy.WithinTolerance(req.DeclaredTotal, total) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Float64("declared", req.DeclaredTotal).
			Float64("computed", total).
			Msg("declared total rejected")
		return nil, model.NewValidationError("declaredTotal",
			fmt.Sprintf("declared total %.2f does not match computed total %.2f", req.DeclaredTotal, total))
	}

	var order *model.Order

	err = s.store.WithTx(ctx, func(tx pgx.Tx) error {
		order, err = s.orderRepo.GetOrderTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return model.NewNotFoundError("order", id.String())
		}

		// Full refund of the old reservation before the new one is taken.
		existing, err := s.orderRepo.GetOrderItemsTx(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, item := range existing {
			if err := s.inventory.Release(ctx, tx, item.VariantID, item.Quantity); err != nil {
				return err
			}
		}

		if err := s.orderRepo.DeleteOrderItems(ctx, tx, id); err != nil {
			return err
		}

		for i := range items {
			items[i].ID = uuid.New()
			items[i].OrderID = id

			if err := s.inventory.Reserve(ctx, tx, items[i].VariantID, items[i].Quantity); err != nil {
				return err
			}
		}

		if err := s.orderRepo.InsertOrderItems(ctx, tx, items); err != nil {
			return err
		}

		order.ClientName = req.ClientName
		order.Phone = req.Phone
		order.Email = req.Email
		order.ShippingAddress = req.ShippingAddress
		order.TotalAmount = total
		order.UpdatedAt = time.Now()
		if req.Status != "" {
			order.Status = req.Status
		}

		return s.orderRepo.UpdateOrder(ctx, tx, order)
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", id.String()).
			Msg("order update rolled back")
		return nil, err
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Int("item_count", len(items)).
		Float64("total", total).
		Msg("order updated")

	return orderResponse(order, items), nil
}

// Delete removes an order, its items and dependent payment records, returning
// every reserved unit to stock in the same transaction.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.GetOrderTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return model.NewNotFoundError("order", id.String())
		}

		items, err := s.orderRepo.GetOrderItemsTx(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.inventory.Release(ctx, tx, item.VariantID, item.Quantity); err != nil {
				return err
			}
		}

		if err := s.orderRepo.DeleteOrderItems(ctx, tx, id); err != nil {
			return err
		}
		if err := s.orderRepo.DeletePayments(ctx, tx, id); err != nil {
			return err
		}

		return s.orderRepo.DeleteOrder(ctx, tx, id)
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", id.String()).
			Msg("order deletion rolled back")
		return err
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")
	return nil
}

// GetByID retrieves an order with its items, or nil when absent.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, nil
	}

	return orderResponse(order, items), nil
}

// priceItems resolves each requested line against the catalogue: variant
// existence, base price, and any active sale on the owning product. Unit
// prices are snapshots; they are captured here and never re-derived from the
// catalogue afterwards. Returns the priced items and the server-computed
// order total.
func (s *orderService) priceItems(ctx context.Context, reqItems []model.OrderItemRequest) ([]model.OrderItem, float64, error) {
	idSet := make(map[int64]struct{}, len(reqItems))
	ids := make([]int64, 0, len(reqItems))
	for _, item := range reqItems {
		if _, ok := idSet[item.VariantID]; !ok {
			idSet[item.VariantID] = struct{}{}
			ids = append(ids, item.VariantID)
		}
	}

	variants, err := s.catalogRepo.GetVariantsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve variants: %w", err)
	}

	byID := make(map[int64]model.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, 0, model.NewNotFoundError("variant", fmt.Sprintf("%d", id))
		}
	}

	// One sale lookup per distinct product; the same instant is used for the
	// whole order so all lines see a consistent promotional state.
	now := time.Now()
	sales := make(map[int64]*model.Sale)

	items := make([]model.OrderItem, len(reqItems))
	lines := make([]pricing.Line, len(reqItems))
	for i, reqItem := range reqItems {
		variant := byID[reqItem.VariantID]

		sale, ok := sales[variant.ProductID]
		if !ok {
			sale, err = s.saleRepo.GetActiveSaleForProduct(ctx, variant.ProductID, now)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to resolve sale for product %d: %w", variant.ProductID, err)
			}
			sales[variant.ProductID] = sale
		}

		unitPrice := pricing.EffectivePrice(variant.Price, sale)
		items[i] = model.OrderItem{
			VariantID: reqItem.VariantID,
			Quantity:  reqItem.Quantity,
			UnitPrice: unitPrice,
		}
		lines[i] = pricing.Line{UnitPrice: unitPrice, Quantity: reqItem.Quantity}
	}

	return items, s.policy.OrderTotal(lines), nil
}

// validateOrderRequest rejects malformed requests before any transaction
// opens. The first offending field is identified in the error.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError("request", "request body is required")
	}

	if strings.TrimSpace(req.ClientName) == "" {
		return model.NewValidationError("clientName", "client name is required")
	}

	if strings.TrimSpace(req.Phone) == "" && strings.TrimSpace(req.Email) == "" {
		return model.NewValidationError("phone", "phone or email contact is required")
	}

	if strings.TrimSpace(req.ShippingAddress) == "" {
		return model.NewValidationError("shippingAddress", "shipping address is required")
	}

	if req.Status != "" && !model.ValidOrderStatus(req.Status) {
		return model.NewValidationError("status", fmt.Sprintf("unknown status %q", req.Status))
	}

	if len(req.Items) == 0 {
		return model.NewValidationError("items", "order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.VariantID <= 0 {
			return model.NewValidationError(
				fmt.Sprintf("items[%d].variantId", i), "variant id is required")
		}
		if item.Quantity <= 0 {
			return model.NewValidationError(
				fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than zero")
		}
	}

	return nil
}

func orderResponse(order *model.Order, items []model.OrderItem) *model.OrderResponse {
	return &model.OrderResponse{
		ID:              order.ID,
		ClientName:      order.ClientName,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		Items:           items,
	}
}
