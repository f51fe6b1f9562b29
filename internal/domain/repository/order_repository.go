package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"order_api/internal/common"
	"order_api/internal/domain/model"
)

// OrderUpdate describes a partial order patch. Nil fields are left as-is;
// a non-nil Items slice replaces the entire item set.
type OrderUpdate struct {
	Value        *float64
	CreationDate *time.Time
	Items        []model.Item
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByRef(ctx context.Context, ref string) (*model.Order, error)
	// FindOwnerByRef loads only the row id and owning user id, for
	// ownership probes that do not need the full record.
	FindOwnerByRef(ctx context.Context, ref string) (orderID string, userID int64, err error)
	FindByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	Update(ctx context.Context, orderID string, upd OrderUpdate) error
	Delete(ctx context.Context, orderID string) error
}

type pgOrderRepository struct {
	db *sql.DB
}

func NewPgOrderRepository(db *sql.DB) OrderRepository {
	return &pgOrderRepository{db: db}
}

// withTx runs fn inside a transaction, rolling back on error.
func (r *pgOrderRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *pgOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO orders (id, order_ref, user_id, value, creation_date)
		          VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query,
			order.ID, order.OrderRef, order.UserID, order.Value, order.CreationDate); err != nil {
			return fmt.Errorf("pgOrderRepository.Create order: %w", err)
		}
		if err := insertItems(ctx, tx, order.ID, order.Items); err != nil {
			return err
		}
		return nil
	})
}

func insertItems(ctx context.Context, tx *sql.Tx, orderID string, items []model.Item) error {
	query := `INSERT INTO order_items (id, order_id, product_id, quantity, price)
	          VALUES ($1, $2, $3, $4, $5)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, query,
			item.ID, orderID, item.ProductID, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("pgOrderRepository insert item: %w", err)
		}
	}
	return nil
}

func (r *pgOrderRepository) FindByRef(ctx context.Context, ref string) (*model.Order, error) {
	query := `SELECT id, order_ref, user_id, value, creation_date
	          FROM orders WHERE order_ref = $1`
	order := &model.Order{}
	err := r.db.QueryRowContext(ctx, query, ref).Scan(
		&order.ID, &order.OrderRef, &order.UserID, &order.Value, &order.CreationDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgOrderRepository.FindByRef: %w", err)
	}

	items, err := r.findItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *pgOrderRepository) FindOwnerByRef(ctx context.Context, ref string) (string, int64, error) {
	query := `SELECT id, user_id FROM orders WHERE order_ref = $1`
	var orderID string
	var userID int64
	err := r.db.QueryRowContext(ctx, query, ref).Scan(&orderID, &userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, common.ErrNotFound
		}
		return "", 0, fmt.Errorf("pgOrderRepository.FindOwnerByRef: %w", err)
	}
	return orderID, userID, nil
}

func (r *pgOrderRepository) FindByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT id, order_ref, user_id, value, creation_date
	          FROM orders WHERE user_id = $1
	          ORDER BY creation_date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgOrderRepository.FindByUserID: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var order model.Order
		if err := rows.Scan(&order.ID, &order.OrderRef, &order.UserID, &order.Value, &order.CreationDate); err != nil {
			return nil, fmt.Errorf("pgOrderRepository.FindByUserID scan: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgOrderRepository.FindByUserID rows: %w", err)
	}

	for i := range orders {
		items, err := r.findItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *pgOrderRepository) findItems(ctx context.Context, orderID string) ([]model.Item, error) {
	query := `SELECT id, order_id, product_id, quantity, price
	          FROM order_items WHERE order_id = $1
	          ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("pgOrderRepository.findItems: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("pgOrderRepository.findItems scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgOrderRepository.findItems rows: %w", err)
	}
	return items, nil
}

func (r *pgOrderRepository) Update(ctx context.Context, orderID string, upd OrderUpdate) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if upd.Value != nil || upd.CreationDate != nil {
			query := `UPDATE orders
			          SET value = COALESCE($2, value),
			              creation_date = COALESCE($3, creation_date),
			              updated_at = now()
			          WHERE id = $1`
			if _, err := tx.ExecContext(ctx, query, orderID, upd.Value, upd.CreationDate); err != nil {
				return fmt.Errorf("pgOrderRepository.Update order: %w", err)
			}
		}
		if upd.Items != nil {
			// Full replacement: no partial item merge.
			if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
				return fmt.Errorf("pgOrderRepository.Update delete items: %w", err)
			}
			if err := insertItems(ctx, tx, orderID, upd.Items); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *pgOrderRepository) Delete(ctx context.Context, orderID string) error {
	// Items go with the order via ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("pgOrderRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgOrderRepository.Delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
