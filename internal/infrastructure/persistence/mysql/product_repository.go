package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shop-server/internal/domain/product"
)

// ProductRepository MySQL実装のProductRepository
type ProductRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewProductRepository 新しいProductRepositoryを作成
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{
		db:     db,
		tracer: otel.Tracer("product-repository"),
	}
}

// scanProduct 1行分のレコードからエンティティを復元
func scanProduct(row rowScanner) (*product.Product, error) {
	var (
		id, name, description, imageURL string
		priceCents                      int64
		active                          bool
		createdAt, updatedAt            time.Time
	)

	if err := row.Scan(&id, &name, &description, &priceCents, &imageURL, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	p, err := product.NewProduct(id, name, description, priceCents, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild product: %w", err)
	}
	if !active {
		p.SetActive(false)
	}
	p.SetTimestamps(createdAt, updatedAt)
	return p, nil
}

// FindByID IDで商品を取得
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", id),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "products"),
	)

	query := `
		SELECT id, name, description, price_cents, image_url, active, created_at, updated_at
		FROM products
		WHERE id = ?
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "product not found")
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "product found")
	return p, nil
}

// FindAll 商品一覧を取得（総件数付き）
func (r *ProductRepository) FindAll(ctx context.Context, limit, offset int) ([]*product.Product, int, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	span.SetAttributes(
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "products"),
	)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT id, name, description, price_cents, image_url, active, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	span.SetAttributes(attribute.Int("db.count", len(products)))
	span.SetStatus(otelcodes.Ok, "products queried")
	return products, total, nil
}

// Create 商品を作成
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", p.ID()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "products"),
	)

	query := `
		INSERT INTO products (
			id, name, description, price_cents, image_url, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID(),
		p.Name(),
		p.Description(),
		p.PriceCents(),
		p.ImageURL(),
		p.Active(),
		p.CreatedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create product: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "product created")
	return nil
}

// Update 商品を更新
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", p.ID()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "products"),
	)

	query := `
		UPDATE products
		SET name = ?, description = ?, price_cents = ?, image_url = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name(),
		p.Description(),
		p.PriceCents(),
		p.ImageURL(),
		p.Active(),
		p.ID(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Ok, "product not found")
		return product.ErrProductNotFound
	}

	span.SetStatus(otelcodes.Ok, "product updated")
	return nil
}

// Delete 商品を削除
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", id),
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.table", "products"),
	)

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Ok, "product not found")
		return product.ErrProductNotFound
	}

	span.SetStatus(otelcodes.Ok, "product deleted")
	return nil
}
