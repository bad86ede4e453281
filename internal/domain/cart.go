package domain

// Cart is a 1:1 aggregate per user, created at registration and mutated
// only through cart operations. Items hold at most one line per product.
type Cart struct {
	ID     int64      `db:"id" json:"id"`
	UserID int64      `db:"user_id" json:"user_id"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ID        int64 `db:"id" json:"id"`
	CartID    int64 `db:"cart_id" json:"cart_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int64 `db:"quantity" json:"quantity"`

	// Denormalized product fields for display and placement-time
	// validation; never written back to products. ProductDeleted marks a
	// line whose product left the catalog after it entered the cart.
	ProductName    string `db:"name" json:"product_name"`
	UnitPrice      int64  `db:"price" json:"unit_price"`
	InStock        int64  `db:"stock_quantity" json:"-"`
	ProductDeleted bool   `db:"-" json:"product_deleted,omitempty"`
}
