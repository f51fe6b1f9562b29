package model

import "time"

// Order is a business record keyed by a caller-chosen reference and owned
// by exactly one user. Internal linkage fields (row id, owning user, item
// back-references) never appear in API output.
type Order struct {
	ID           string    `json:"-"` // internal row id
	OrderRef     string    `json:"orderId"`
	UserID       int64     `json:"-"` // owner, checked on every read/update/delete
	Value        float64   `json:"value"`
	CreationDate time.Time `json:"creationDate"`
	Items        []Item    `json:"items"`
}

// Item has no identity beyond belonging to one order; the whole set is
// replaced when an update carries an items field.
type Item struct {
	ID        string  `json:"-"`
	OrderID   string  `json:"-"`
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
