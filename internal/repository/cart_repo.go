package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CartRepository interface {
	CreateForUser(ctx context.Context, tx pgx.Tx, userID int64) (int64, error)
	GetCartID(ctx context.Context, userID int64) (int64, error)
	GetItems(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	GetItemsTx(ctx context.Context, tx pgx.Tx, cartID int64) ([]domain.CartItem, error)
	GetItem(ctx context.Context, itemID int64) (*domain.CartItem, error)
	GetItemForProduct(ctx context.Context, cartID, productID int64) (*domain.CartItem, error)
	UpsertItem(ctx context.Context, cartID, productID, quantity int64) error
	SetItemQuantity(ctx context.Context, itemID, quantity int64) error
	DeleteItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
	ClearTx(ctx context.Context, tx pgx.Tx, cartID int64) error
}

type cartRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewCartRepository(pool *pgxpool.Pool, logger *zap.Logger) CartRepository {
	return &cartRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/cart_repo"),
	}
}

func (r *cartRepo) CreateForUser(ctx context.Context, tx pgx.Tx, userID int64) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.CreateForUser")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	query := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		RETURNING id;
	`

	var id int64
	if err := tx.QueryRow(ctx, query, userID).Scan(&id); err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error creating cart",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return 0, fmt.Errorf("error creating cart: %w", err)
	}

	return id, nil
}

func (r *cartRepo) GetCartID(ctx context.Context, userID int64) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.GetCartID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	query := `
		SELECT id
		FROM carts
		WHERE user_id = $1;
	`

	var id int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrCartNotFound
		}

		span.RecordError(err)
		return 0, fmt.Errorf("error finding cart: %w", err)
	}

	return id, nil
}

// cartItemsQuery keeps lines whose product has been soft-deleted: the join
// columns come back NULL and the line is marked instead of dropped, so
// callers decide what a vanished product means rather than losing the line.
const cartItemsQuery = `
	SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
		p.name, p.price, p.stock_quantity
	FROM cart_items ci
	LEFT JOIN products p ON p.id = ci.product_id AND p.deleted_at IS NULL
	WHERE ci.cart_id = $1
	ORDER BY ci.id;
`

func scanCartItems(rows pgx.Rows) ([]domain.CartItem, error) {
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		var (
			name  *string
			price *int64
			stock *int64
		)
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&name,
			&price,
			&stock,
		); err != nil {
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}

		if name == nil {
			item.ProductDeleted = true
		} else {
			item.ProductName = *name
			item.UnitPrice = *price
			item.InStock = *stock
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}

func (r *cartRepo) GetItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.GetItems")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("cart_id", cartID),
	)

	rows, err := r.pool.Query(ctx, cartItemsQuery, cartID)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to query cart items",
			zap.Int64("cart_id", cartID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error querying cart items: %w", err)
	}

	return scanCartItems(rows)
}

// GetItemsTx is the placement-time read: same query, but inside the
// caller's transaction so the lines feed the order snapshot.
func (r *cartRepo) GetItemsTx(ctx context.Context, tx pgx.Tx, cartID int64) ([]domain.CartItem, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.GetItemsTx")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("cart_id", cartID),
	)

	rows, err := tx.Query(ctx, cartItemsQuery, cartID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error querying cart items: %w", err)
	}

	return scanCartItems(rows)
}

func (r *cartRepo) GetItem(ctx context.Context, itemID int64) (*domain.CartItem, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.GetItem")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("item_id", itemID),
	)

	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
			p.name, p.price, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = $1;
	`

	var item domain.CartItem
	if err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.ProductName,
		&item.UnitPrice,
		&item.InStock,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error finding cart item: %w", err)
	}

	return &item, nil
}

func (r *cartRepo) GetItemForProduct(ctx context.Context, cartID, productID int64) (*domain.CartItem, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.GetItemForProduct")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("cart_id", cartID),
		attribute.Int64("product_id", productID),
	)

	query := `
		SELECT id, cart_id, product_id, quantity
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2;
	`

	var item domain.CartItem
	if err := r.pool.QueryRow(ctx, query, cartID, productID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error finding cart item: %w", err)
	}

	return &item, nil
}

// UpsertItem merges quantity into an existing line for the product, or
// creates the line. The unique (cart_id, product_id) constraint guarantees
// one line per product no matter how the upsert races.
func (r *cartRepo) UpsertItem(ctx context.Context, cartID, productID, quantity int64) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.UpsertItem")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("cart_id", cartID),
		attribute.Int64("product_id", productID),
		attribute.Int64("quantity", quantity),
	)

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity;
	`

	if _, err := r.pool.Exec(ctx, query, cartID, productID, quantity); err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to upsert cart item",
			zap.Int64("cart_id", cartID),
			zap.Int64("product_id", productID),
			zap.Error(err),
		)

		return fmt.Errorf("error adding cart item: %w", err)
	}

	return nil
}

func (r *cartRepo) SetItemQuantity(ctx context.Context, itemID, quantity int64) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.SetItemQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("item_id", itemID),
		attribute.Int64("quantity", quantity),
	)

	query := `
		UPDATE cart_items
		SET quantity = $2
		WHERE id = $1;
	`

	commandTag, err := r.pool.Exec(ctx, query, itemID, quantity)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("error updating cart item: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepo) DeleteItem(ctx context.Context, itemID int64) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.DeleteItem")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("item_id", itemID),
	)

	query := `
		DELETE FROM cart_items
		WHERE id = $1;
	`

	commandTag, err := r.pool.Exec(ctx, query, itemID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("error deleting cart item: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepo) Clear(ctx context.Context, cartID int64) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.Clear")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("cart_id", cartID),
	)

	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("error clearing cart: %w", err)
	}

	return nil
}

func (r *cartRepo) ClearTx(ctx context.Context, tx pgx.Tx, cartID int64) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.ClearTx")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("cart_id", cartID),
	)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("error clearing cart: %w", err)
	}

	return nil
}
