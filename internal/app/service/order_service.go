package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"order_api/internal/common"
	"order_api/internal/domain/model"
	"order_api/internal/domain/repository"

	"github.com/google/uuid"
)

// OrderService implements owner-scoped order CRUD. Every read, update and
// delete first checks that the record exists, then that the caller owns
// it; a missing order is always 404 regardless of who asks.
type OrderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// ItemRequest uses the external wire field names.
type ItemRequest struct {
	ProductID string  `json:"idItem" validate:"required"`
	Quantity  int     `json:"quantidadeItem" validate:"required,gt=0"`
	Price     float64 `json:"valorItem" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	OrderRef     string        `json:"numeroPedido" validate:"required"`
	Value        float64       `json:"valorTotal" validate:"required,gt=0"`
	CreationDate string        `json:"dataCriacao" validate:"required"`
	Items        []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	Value        *float64       `json:"valorTotal" validate:"omitempty,gt=0"`
	CreationDate *string        `json:"dataCriacao"`
	Items        *[]ItemRequest `json:"items" validate:"omitempty,min=1,dive"`
}

func parseCreationDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("dataCriacao must be an ISO 8601 date: %w", common.ErrValidation)
}

func mapItems(orderID string, reqs []ItemRequest) ([]model.Item, error) {
	items := make([]model.Item, 0, len(reqs))
	for _, req := range reqs {
		productID, err := strconv.Atoi(req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("idItem must be numeric: %w", common.ErrValidation)
		}
		items = append(items, model.Item{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  req.Quantity,
			Price:     req.Price,
		})
	}
	return items, nil
}

// Create persists the order with its items in one transaction. The owner
// comes from the authenticated context, never from the body.
func (s *OrderService) Create(ctx context.Context, userID int64, req CreateOrderRequest) (*model.Order, error) {
	creationDate, err := parseCreationDate(req.CreationDate)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:           uuid.NewString(),
		OrderRef:     req.OrderRef,
		UserID:       userID,
		Value:        req.Value,
		CreationDate: creationDate,
	}
	items, err := mapItems(order.ID, req.Items)
	if err != nil {
		return nil, err
	}
	order.Items = items

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// A duplicate order_ref surfaces as a pg unique violation and is
		// translated to 409 at the boundary.
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetByRef(ctx context.Context, userID int64, ref string) (*model.Order, error) {
	order, err := s.orderRepo.FindByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("order %q: %w", ref, err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %q belongs to another user: %w", ref, common.ErrForbidden)
	}
	return order, nil
}

// ListMine returns the caller's orders, most recent creation date first.
func (s *OrderService) ListMine(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Update(ctx context.Context, userID int64, ref string, req UpdateOrderRequest) (*model.Order, error) {
	orderID, ownerID, err := s.orderRepo.FindOwnerByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("order %q: %w", ref, err)
	}
	if ownerID != userID {
		return nil, fmt.Errorf("order %q belongs to another user: %w", ref, common.ErrForbidden)
	}

	upd := repository.OrderUpdate{Value: req.Value}
	if req.CreationDate != nil {
		creationDate, err := parseCreationDate(*req.CreationDate)
		if err != nil {
			return nil, err
		}
		upd.CreationDate = &creationDate
	}
	if req.Items != nil {
		items, err := mapItems(orderID, *req.Items)
		if err != nil {
			return nil, err
		}
		upd.Items = items
	}

	if upd.Value != nil || upd.CreationDate != nil || upd.Items != nil {
		if err := s.orderRepo.Update(ctx, orderID, upd); err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
	}

	order, err := s.orderRepo.FindByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, userID int64, ref string) error {
	// Ownership probe with a minimal projection; items cascade with the row.
	orderID, ownerID, err := s.orderRepo.FindOwnerByRef(ctx, ref)
	if err != nil {
		return fmt.Errorf("order %q: %w", ref, err)
	}
	if ownerID != userID {
		return fmt.Errorf("order %q belongs to another user: %w", ref, common.ErrForbidden)
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}
