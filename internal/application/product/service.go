package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shop-server/internal/domain/product"
	otelinfra "shop-server/internal/infrastructure/observability/otel"
)

// ProductApplicationService 商品アプリケーションサービス
type ProductApplicationService struct {
	productRepo product.ProductRepository
	logger      *otelinfra.Logger
	tracer      trace.Tracer
}

// NewProductApplicationService 新しいProductApplicationServiceを作成
func NewProductApplicationService(productRepo product.ProductRepository, logger *otelinfra.Logger) *ProductApplicationService {
	return &ProductApplicationService{
		productRepo: productRepo,
		logger:      logger,
		tracer:      otel.Tracer("product-service"),
	}
}

// CreateProduct 商品を作成
func (s *ProductApplicationService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductApplicationService.CreateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("name", req.Name))

	s.logger.Info(ctx, "Creating product", map[string]interface{}{
		"name":        req.Name,
		"price_cents": req.PriceCents,
	})

	p, err := product.NewProduct(uuid.NewString(), req.Name, req.Description, req.PriceCents, req.ImageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if err := s.productRepo.Create(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info(ctx, "Product created successfully", map[string]interface{}{
		"id": p.ID(),
	})
	return toProductResponse(p), nil
}

// GetProduct 商品を取得
func (s *ProductApplicationService) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductApplicationService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.String("id", id))

	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	return toProductResponse(p), nil
}

// ListProducts 商品一覧を取得
func (s *ProductApplicationService) ListProducts(ctx context.Context, limit, offset int) (*ListProductsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductApplicationService.ListProducts")
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

	products, total, err := s.productRepo.FindAll(ctx, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to list products", err, nil)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	responses := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}

	return &ListProductsResponse{
		Products: responses,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// UpdateProduct 商品を部分更新
func (s *ProductApplicationService) UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductApplicationService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("id", req.ID))

	p, err := s.productRepo.FindByID(ctx, req.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if req.Name != nil {
		if err := p.Rename(*req.Name); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
	}
	if req.Description != nil {
		p.SetDescription(*req.Description)
	}
	if req.PriceCents != nil {
		if err := p.SetPriceCents(*req.PriceCents); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
	}
	if req.ImageURL != nil {
		p.SetImageURL(*req.ImageURL)
	}
	if req.Active != nil {
		p.SetActive(*req.Active)
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if err != product.ErrProductNotFound {
			s.logger.Error(ctx, "Failed to update product", err, map[string]interface{}{
				"id": req.ID,
			})
		}
		return nil, err
	}

	s.logger.Info(ctx, "Product updated successfully", map[string]interface{}{
		"id": p.ID(),
	})
	return toProductResponse(p), nil
}

// DeleteProduct 商品を削除
func (s *ProductApplicationService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "ProductApplicationService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("id", id))

	if err := s.productRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if err != product.ErrProductNotFound {
			s.logger.Error(ctx, "Failed to delete product", err, map[string]interface{}{
				"id": id,
			})
		}
		return err
	}

	s.logger.Info(ctx, "Product deleted successfully", map[string]interface{}{
		"id": id,
	})
	return nil
}
