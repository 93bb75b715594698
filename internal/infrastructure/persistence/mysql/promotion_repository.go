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

	"shop-server/internal/domain/promotion"
)

// PromotionRepository MySQL実装のPromotionRepository
type PromotionRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewPromotionRepository 新しいPromotionRepositoryを作成
func NewPromotionRepository(db *DB) *PromotionRepository {
	return &PromotionRepository{
		db:     db,
		tracer: otel.Tracer("promotion-repository"),
	}
}

// scanPromotion 1行分のレコードからエンティティを復元
func scanPromotion(row rowScanner) (*promotion.Promotion, error) {
	var (
		id, title, description string
		percentOff             int
		startsAt, endsAt       time.Time
		active                 bool
		createdAt, updatedAt   time.Time
	)

	if err := row.Scan(&id, &title, &description, &percentOff, &startsAt, &endsAt, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	p, err := promotion.NewPromotion(id, title, description, percentOff, startsAt, endsAt)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild promotion: %w", err)
	}
	if !active {
		p.SetActive(false)
	}
	p.SetTimestamps(createdAt, updatedAt)
	return p, nil
}

// FindByID IDでプロモーションを取得
func (r *PromotionRepository) FindByID(ctx context.Context, id string) (*promotion.Promotion, error) {
	ctx, span := r.tracer.Start(ctx, "PromotionRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", id),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "promotions"),
	)

	query := `
		SELECT id, title, description, percent_off, starts_at, ends_at, active, created_at, updated_at
		FROM promotions
		WHERE id = ?
	`

	p, err := scanPromotion(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "promotion not found")
		return nil, promotion.ErrPromotionNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find promotion: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "promotion found")
	return p, nil
}

// FindAll プロモーション一覧を取得（総件数付き）
func (r *PromotionRepository) FindAll(ctx context.Context, limit, offset int) ([]*promotion.Promotion, int, error) {
	ctx, span := r.tracer.Start(ctx, "PromotionRepository.FindAll")
	defer span.End()

	span.SetAttributes(
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "promotions"),
	)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM promotions`).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count promotions: %w", err)
	}

	query := `
		SELECT id, title, description, percent_off, starts_at, ends_at, active, created_at, updated_at
		FROM promotions
		ORDER BY starts_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer rows.Close()

	var promotions []*promotion.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, 0, err
		}
		promotions = append(promotions, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to iterate promotions: %w", err)
	}

	span.SetAttributes(attribute.Int("db.count", len(promotions)))
	span.SetStatus(otelcodes.Ok, "promotions queried")
	return promotions, total, nil
}

// Create プロモーションを作成
func (r *PromotionRepository) Create(ctx context.Context, p *promotion.Promotion) error {
	ctx, span := r.tracer.Start(ctx, "PromotionRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", p.ID()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "promotions"),
	)

	query := `
		INSERT INTO promotions (
			id, title, description, percent_off, starts_at, ends_at, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID(),
		p.Title(),
		p.Description(),
		p.PercentOff(),
		p.StartsAt(),
		p.EndsAt(),
		p.Active(),
		p.CreatedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "promotion created")
	return nil
}

// Update プロモーションを更新
func (r *PromotionRepository) Update(ctx context.Context, p *promotion.Promotion) error {
	ctx, span := r.tracer.Start(ctx, "PromotionRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", p.ID()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "promotions"),
	)

	query := `
		UPDATE promotions
		SET title = ?, description = ?, percent_off = ?, starts_at = ?, ends_at = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Title(),
		p.Description(),
		p.PercentOff(),
		p.StartsAt(),
		p.EndsAt(),
		p.Active(),
		p.ID(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to update promotion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Ok, "promotion not found")
		return promotion.ErrPromotionNotFound
	}

	span.SetStatus(otelcodes.Ok, "promotion updated")
	return nil
}

// Delete プロモーションを削除
func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "PromotionRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", id),
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.table", "promotions"),
	)

	result, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = ?`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to delete promotion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Ok, "promotion not found")
		return promotion.ErrPromotionNotFound
	}

	span.SetStatus(otelcodes.Ok, "promotion deleted")
	return nil
}
