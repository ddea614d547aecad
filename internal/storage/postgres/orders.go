package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
)

const orderColumns = `id, customer_name, customer_email, customer_phone, total_cents, status, payment_intent_id, created_at, updated_at`

var errDuplicateIntent = errors.New("payment intent already recorded")

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o          model.Order
		totalCents int64
		status     string
		intentID   *string
	)
	if err := row.Scan(&o.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &totalCents, &status, &intentID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Total = model.FromCents(totalCents)
	o.Status = model.OrderStatus(status)
	if intentID != nil {
		o.PaymentIntentID = *intentID
	}
	return &o, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *orderRepository) Commit(ctx context.Context, order *model.Order, reservations []model.Reservation) (*model.Order, bool, error) {
	const insertOrder = `INSERT INTO orders (` + orderColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
        ON CONFLICT (payment_intent_id) DO NOTHING
        RETURNING created_at, updated_at`
	const insertItem = `INSERT INTO order_items (order_id, position, product_id, product_name, quantity, price_cents)
        VALUES ($1, $2, $3, $4, $5, $6)`
	const reserve = `UPDATE products SET
            weekly_remaining = CASE WHEN weekly_cap IS NULL THEN weekly_remaining ELSE weekly_remaining - $2 END,
            updated_at = NOW()
        WHERE id = $1 AND (weekly_cap IS NULL OR weekly_remaining >= $2)
        RETURNING weekly_remaining`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	stored := *order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertOrder,
			order.ID,
			order.Customer.Name,
			order.Customer.Email,
			order.Customer.Phone,
			model.ToCents(order.Total),
			string(order.Status),
			nullableString(order.PaymentIntentID),
			order.CreatedAt,
		).Scan(&stored.CreatedAt, &stored.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return errDuplicateIntent
		}
		if err != nil {
			return err
		}

		for i, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem, order.ID, i, item.ProductID, item.ProductName, item.Quantity, model.ToCents(item.Price)); err != nil {
				return err
			}
		}

		for _, reservation := range reservations {
			var remaining int
			err := tx.QueryRow(ctx, reserve, reservation.ProductID, reservation.Quantity).Scan(&remaining)
			if errors.Is(err, pgx.ErrNoRows) {
				return stockShortage(ctx, tx, reservation)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})

	switch {
	case err == nil:
		return &stored, true, nil
	case errors.Is(err, errDuplicateIntent):
		r.storage.logger.Debug("payment intent already committed", "payment_intent_id", order.PaymentIntentID)
		existing, err := r.GetByPaymentIntent(ctx, order.PaymentIntentID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case errors.Is(err, domainErrors.ErrInsufficientStock), errors.Is(err, domainErrors.ErrProductNotFound):
		return nil, false, err
	default:
		return nil, false, classify(err)
	}
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *orderRepository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE payment_intent_id = $1`
	return r.getOne(ctx, query, paymentIntentID)
}

func (r *orderRepository) FindRecentByEmail(ctx context.Context, email string, since time.Time) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
        WHERE lower(customer_email) = lower($1) AND created_at >= $2
        ORDER BY created_at DESC
        LIMIT 1`
	return r.getOne(ctx, query, email, since)
}

func (r *orderRepository) getOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, classify(err)
	}

	items, err := loadItems(ctx, r.storage.pool, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	const (
		all      = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`
		byStatus = `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY created_at DESC, id DESC`
	)

	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		rows, err = r.storage.pool.Query(ctx, byStatus, string(*status))
	} else {
		rows, err = r.storage.pool.Query(ctx, all)
	}
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var (
		orders []model.Order
		ids    []string
	)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := loadItems(ctx, r.storage.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	const query = `UPDATE orders SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	tag, err := r.storage.pool.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	const lookup = `SELECT status FROM orders WHERE id = $1`
	var current string
	if err := r.storage.pool.QueryRow(ctx, lookup, id).Scan(&current); err != nil {
		return classify(err)
	}
	return domainErrors.ErrInvalidTransition
}

func loadItems(ctx context.Context, q querier, orderIDs []string) (map[string][]model.OrderItem, error) {
	const query = `SELECT order_id, product_id, product_name, quantity, price_cents
        FROM order_items WHERE order_id = ANY($1)
        ORDER BY order_id, position`

	rows, err := q.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	items := make(map[string][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID    string
			item       model.OrderItem
			priceCents int64
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity, &priceCents); err != nil {
			return nil, err
		}
		item.Price = model.FromCents(priceCents)
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return items, nil
}
