package promotion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shop-server/internal/domain/promotion"
	otelinfra "shop-server/internal/infrastructure/observability/otel"
)

// PromotionApplicationService プロモーションアプリケーションサービス
type PromotionApplicationService struct {
	promotionRepo promotion.PromotionRepository
	logger        *otelinfra.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewPromotionApplicationService 新しいPromotionApplicationServiceを作成
func NewPromotionApplicationService(promotionRepo promotion.PromotionRepository, logger *otelinfra.Logger) *PromotionApplicationService {
	return &PromotionApplicationService{
		promotionRepo: promotionRepo,
		logger:        logger,
		tracer:        otel.Tracer("promotion-service"),
		now:           time.Now,
	}
}

// CreatePromotion プロモーションを作成
func (s *PromotionApplicationService) CreatePromotion(ctx context.Context, req *CreatePromotionRequest) (*PromotionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PromotionApplicationService.CreatePromotion")
	defer span.End()

	span.SetAttributes(attribute.String("title", req.Title))

	s.logger.Info(ctx, "Creating promotion", map[string]interface{}{
		"title":       req.Title,
		"percent_off": req.PercentOff,
	})

	p, err := promotion.NewPromotion(uuid.NewString(), req.Title, req.Description, req.PercentOff, req.StartsAt, req.EndsAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if err := s.promotionRepo.Create(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to create promotion", err, map[string]interface{}{
			"title": req.Title,
		})
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	s.logger.Info(ctx, "Promotion created successfully", map[string]interface{}{
		"id": p.ID(),
	})
	return toPromotionResponse(p, s.now()), nil
}

// GetPromotion プロモーションを取得
func (s *PromotionApplicationService) GetPromotion(ctx context.Context, id string) (*PromotionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PromotionApplicationService.GetPromotion")
	defer span.End()

	span.SetAttributes(attribute.String("id", id))

	p, err := s.promotionRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	return toPromotionResponse(p, s.now()), nil
}

// ListPromotions プロモーション一覧を取得
func (s *PromotionApplicationService) ListPromotions(ctx context.Context, limit, offset int) (*ListPromotionsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PromotionApplicationService.ListPromotions")
	defer span.End()

	// ページネーションパラメータのバリデーション
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	span.SetAttributes(
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	promotions, total, err := s.promotionRepo.FindAll(ctx, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to list promotions", err, nil)
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}

	now := s.now()
	responses := make([]*PromotionResponse, 0, len(promotions))
	for _, p := range promotions {
		responses = append(responses, toPromotionResponse(p, now))
	}

	return &ListPromotionsResponse{
		Promotions: responses,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// UpdatePromotion プロモーションを部分更新
func (s *PromotionApplicationService) UpdatePromotion(ctx context.Context, req *UpdatePromotionRequest) (*PromotionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PromotionApplicationService.UpdatePromotion")
	defer span.End()

	span.SetAttributes(attribute.String("id", req.ID))

	p, err := s.promotionRepo.FindByID(ctx, req.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if req.Title != nil {
		if err := p.Retitle(*req.Title); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
	}
	if req.Description != nil {
		p.SetDescription(*req.Description)
	}
	if req.PercentOff != nil {
		if err := p.SetPercentOff(*req.PercentOff); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
	}
	if req.StartsAt != nil || req.EndsAt != nil {
		startsAt := p.StartsAt()
		endsAt := p.EndsAt()
		if req.StartsAt != nil {
			startsAt = *req.StartsAt
		}
		if req.EndsAt != nil {
			endsAt = *req.EndsAt
		}
		if err := p.SetWindow(startsAt, endsAt); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
	}
	if req.Active != nil {
		p.SetActive(*req.Active)
	}

	if err := s.promotionRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if err != promotion.ErrPromotionNotFound {
			s.logger.Error(ctx, "Failed to update promotion", err, map[string]interface{}{
				"id": req.ID,
			})
		}
		return nil, err
	}

	s.logger.Info(ctx, "Promotion updated successfully", map[string]interface{}{
		"id": p.ID(),
	})
	return toPromotionResponse(p, s.now()), nil
}

// DeletePromotion プロモーションを削除
func (s *PromotionApplicationService) DeletePromotion(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "PromotionApplicationService.DeletePromotion")
	defer span.End()

	span.SetAttributes(attribute.String("id", id))

	if err := s.promotionRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if err != promotion.ErrPromotionNotFound {
			s.logger.Error(ctx, "Failed to delete promotion", err, map[string]interface{}{
				"id": id,
			})
		}
		return err
	}

	s.logger.Info(ctx, "Promotion deleted successfully", map[string]interface{}{
		"id": id,
	})
	return nil
}
