package service

import (
	"context"
	"testing"
	"time"

	"order_api/internal/common"
	"order_api/internal/domain/model"
	"order_api/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderRepo is a hand-written OrderRepository double.
type mockOrderRepo struct {
	createdOrder *model.Order
	createErr    error

	order   *model.Order
	findErr error

	ownerOrderID string
	ownerUserID  int64
	ownerErr     error

	lastUpdateID string
	lastUpdate   *repository.OrderUpdate
	updateErr    error

	deletedID string
	deleteErr error
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdOrder = order
	return nil
}

func (m *mockOrderRepo) FindByRef(_ context.Context, _ string) (*model.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.order, nil
}

func (m *mockOrderRepo) FindOwnerByRef(_ context.Context, _ string) (string, int64, error) {
	if m.ownerErr != nil {
		return "", 0, m.ownerErr
	}
	return m.ownerOrderID, m.ownerUserID, nil
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, _ int64) ([]model.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.order == nil {
		return []model.Order{}, nil
	}
	return []model.Order{*m.order}, nil
}

func (m *mockOrderRepo) Update(_ context.Context, orderID string, upd repository.OrderUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastUpdateID = orderID
	m.lastUpdate = &upd
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, orderID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = orderID
	return nil
}

func validCreateRequest() CreateOrderRequest {
	return CreateOrderRequest{
		OrderRef:     "v10089015vdb",
		Value:        100.5,
		CreationDate: "2024-06-01T10:00:00Z",
		Items: []ItemRequest{
			{ProductID: "2434", Quantity: 2, Price: 50.25},
		},
	}
}

func TestOrderService_Create(t *testing.T) {
	t.Run("owner comes from the caller, never from the body", func(t *testing.T) {
		repo := &mockOrderRepo{}
		svc := NewOrderService(repo)

		order, err := svc.Create(t.Context(), 7, validCreateRequest())
		require.NoError(t, err)

		assert.Equal(t, int64(7), order.UserID)
		assert.Equal(t, "v10089015vdb", order.OrderRef)
		assert.NotEmpty(t, order.ID)
		require.Len(t, order.Items, 1)
		assert.Equal(t, 2434, order.Items[0].ProductID)
		assert.Equal(t, order.ID, order.Items[0].OrderID)
		assert.Same(t, order, repo.createdOrder)
	})

	t.Run("non-numeric item id is a validation error", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{})
		req := validCreateRequest()
		req.Items[0].ProductID = "abc"
		_, err := svc.Create(t.Context(), 7, req)
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("bad creation date is a validation error", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{})
		req := validCreateRequest()
		req.CreationDate = "01/06/2024"
		_, err := svc.Create(t.Context(), 7, req)
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("date-only form is accepted", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{})
		req := validCreateRequest()
		req.CreationDate = "2024-06-01"
		order, err := svc.Create(t.Context(), 7, req)
		require.NoError(t, err)
		assert.Equal(t, 2024, order.CreationDate.Year())
	})
}

func TestOrderService_GetByRef(t *testing.T) {
	owned := &model.Order{ID: "row-1", OrderRef: "A1", UserID: 7}

	t.Run("owner reads it", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{order: owned})
		order, err := svc.GetByRef(t.Context(), 7, "A1")
		require.NoError(t, err)
		assert.Equal(t, "A1", order.OrderRef)
	})

	t.Run("someone else gets forbidden, not not-found", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{order: owned})
		_, err := svc.GetByRef(t.Context(), 8, "A1")
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("missing order is not-found for everyone", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{findErr: common.ErrNotFound})
		_, err := svc.GetByRef(t.Context(), 8, "ghost")
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.NotErrorIs(t, err, common.ErrForbidden)
	})
}

func TestOrderService_Update(t *testing.T) {
	current := &model.Order{ID: "row-1", OrderRef: "A1", UserID: 7, Value: 10}

	t.Run("items field replaces the whole set", func(t *testing.T) {
		repo := &mockOrderRepo{ownerOrderID: "row-1", ownerUserID: 7, order: current}
		svc := NewOrderService(repo)

		items := []ItemRequest{{ProductID: "99", Quantity: 1, Price: 5}}
		_, err := svc.Update(t.Context(), 7, "A1", UpdateOrderRequest{Items: &items})
		require.NoError(t, err)

		require.NotNil(t, repo.lastUpdate)
		assert.Equal(t, "row-1", repo.lastUpdateID)
		require.Len(t, repo.lastUpdate.Items, 1)
		assert.Equal(t, 99, repo.lastUpdate.Items[0].ProductID)
		assert.Nil(t, repo.lastUpdate.Value)
		assert.Nil(t, repo.lastUpdate.CreationDate)
	})

	t.Run("value-only patch leaves items alone", func(t *testing.T) {
		repo := &mockOrderRepo{ownerOrderID: "row-1", ownerUserID: 7, order: current}
		svc := NewOrderService(repo)

		value := 42.0
		_, err := svc.Update(t.Context(), 7, "A1", UpdateOrderRequest{Value: &value})
		require.NoError(t, err)

		require.NotNil(t, repo.lastUpdate)
		assert.Equal(t, 42.0, *repo.lastUpdate.Value)
		assert.Nil(t, repo.lastUpdate.Items)
	})

	t.Run("empty patch is a no-op returning the current order", func(t *testing.T) {
		repo := &mockOrderRepo{ownerOrderID: "row-1", ownerUserID: 7, order: current}
		svc := NewOrderService(repo)

		order, err := svc.Update(t.Context(), 7, "A1", UpdateOrderRequest{})
		require.NoError(t, err)
		assert.Nil(t, repo.lastUpdate)
		assert.Equal(t, "A1", order.OrderRef)
	})

	t.Run("not the owner", func(t *testing.T) {
		repo := &mockOrderRepo{ownerOrderID: "row-1", ownerUserID: 7}
		svc := NewOrderService(repo)
		_, err := svc.Update(t.Context(), 8, "A1", UpdateOrderRequest{})
		assert.ErrorIs(t, err, common.ErrForbidden)
		assert.Nil(t, repo.lastUpdate)
	})

	t.Run("missing order", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{ownerErr: common.ErrNotFound})
		_, err := svc.Update(t.Context(), 7, "ghost", UpdateOrderRequest{})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestOrderService_Delete(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		repo := &mockOrderRepo{ownerOrderID: "row-1", ownerUserID: 7}
		svc := NewOrderService(repo)
		require.NoError(t, svc.Delete(t.Context(), 7, "A1"))
		assert.Equal(t, "row-1", repo.deletedID)
	})

	t.Run("not the owner", func(t *testing.T) {
		repo := &mockOrderRepo{ownerOrderID: "row-1", ownerUserID: 7}
		svc := NewOrderService(repo)
		err := svc.Delete(t.Context(), 8, "A1")
		assert.ErrorIs(t, err, common.ErrForbidden)
		assert.Empty(t, repo.deletedID)
	})

	t.Run("missing order is not-found even for a stranger", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{ownerErr: common.ErrNotFound})
		err := svc.Delete(t.Context(), 8, "ghost")
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.NotErrorIs(t, err, common.ErrForbidden)
	})
}

func TestOrderService_ListMine(t *testing.T) {
	order := &model.Order{ID: "row-1", OrderRef: "A1", UserID: 7, CreationDate: time.Now()}
	svc := NewOrderService(&mockOrderRepo{order: order})

	orders, err := svc.ListMine(t.Context(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "A1", orders[0].OrderRef)
}
