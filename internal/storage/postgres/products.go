package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
)

const productColumns = `id, name, description, price_cents, image, weekly_cap, weekly_remaining, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p          model.Product
		priceCents int64
		weeklyCap  *int
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &priceCents, &p.Image, &weeklyCap, &p.WeeklyRemaining, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Price = model.FromCents(priceCents)
	p.WeeklyCap = weeklyCap
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	const query = `INSERT INTO products (id, name, description, price_cents, image, weekly_cap, weekly_remaining, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	product.UpdatedAt = product.CreatedAt

	_, err := r.storage.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		model.ToCents(product.Price),
		product.Image,
		product.WeeklyCap,
		product.WeeklyRemaining,
		product.CreatedAt,
	)
	if isCheckViolation(err) {
		return domainErrors.ErrExceedsCap
	}
	return classify(err)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classify(err)
	}
	return product, nil
}

func (r *productRepository) GetMany(ctx context.Context, ids []string) (map[string]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	result := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result[product.ID] = *product
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return result, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC`

	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	const query = `UPDATE products SET
            name = $2,
            description = $3,
            price_cents = $4,
            weekly_remaining = CASE
                WHEN $5::int IS NULL THEN 0
                WHEN $6::int IS NOT NULL THEN $6::int
                WHEN weekly_cap IS NULL THEN $5::int
                ELSE LEAST(weekly_remaining, $5::int)
            END,
            weekly_cap = $5::int,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + productColumns

	product, err := scanProduct(r.storage.pool.QueryRow(ctx, query,
		id,
		input.Name,
		input.Description,
		model.ToCents(input.Price),
		input.WeeklyCap,
		input.WeeklyRemaining,
	))
	if err != nil {
		if isCheckViolation(err) {
			return nil, domainErrors.ErrExceedsCap
		}
		return nil, classify(err)
	}
	return product, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) (*model.Product, error) {
	const query = `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	product, err := scanProduct(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classify(err)
	}
	return product, nil
}

func (r *productRepository) SetImage(ctx context.Context, id, ref string) (string, error) {
	const query = `UPDATE products p SET image = $2, updated_at = NOW()
        FROM (SELECT id, image FROM products WHERE id = $1 FOR UPDATE) old
        WHERE p.id = old.id
        RETURNING old.image`

	var previous string
	if err := r.storage.pool.QueryRow(ctx, query, id, ref).Scan(&previous); err != nil {
		return "", classify(err)
	}
	return previous, nil
}

func (r *productRepository) SetRemaining(ctx context.Context, id string, value int) error {
	const query = `UPDATE products SET weekly_remaining = $2, updated_at = NOW()
        WHERE id = $1 AND weekly_cap IS NOT NULL AND $2 BETWEEN 0 AND weekly_cap`

	tag, err := r.storage.pool.Exec(ctx, query, id, value)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	const lookup = `SELECT weekly_cap FROM products WHERE id = $1`
	var weeklyCap *int
	if err := r.storage.pool.QueryRow(ctx, lookup, id).Scan(&weeklyCap); err != nil {
		return classify(err)
	}
	if weeklyCap == nil {
		return domainErrors.ErrUncapped
	}
	return domainErrors.ErrExceedsCap
}

func (r *productRepository) ResetRemaining(ctx context.Context) (int64, error) {
	const query = `UPDATE products SET weekly_remaining = weekly_cap, updated_at = NOW() WHERE weekly_cap IS NOT NULL`

	tag, err := r.storage.pool.Exec(ctx, query)
	if err != nil {
		return 0, classify(err)
	}
	return tag.RowsAffected(), nil
}

// stockShortage explains why a conditional decrement matched no row.
func stockShortage(ctx context.Context, q querier, reservation model.Reservation) error {
	const query = `SELECT name, weekly_remaining FROM products WHERE id = $1`

	var (
		name      string
		remaining int
	)
	err := q.QueryRow(ctx, query, reservation.ProductID).Scan(&name, &remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrProductNotFound
	}
	if err != nil {
		return err
	}
	return &domainErrors.InsufficientStockError{
		ProductID:   reservation.ProductID,
		ProductName: name,
		Requested:   reservation.Quantity,
		Available:   remaining,
	}
}
