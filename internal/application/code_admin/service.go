package code_admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shop-server/internal/domain/redeem_code"
	otelinfra "shop-server/internal/infrastructure/observability/otel"
)

// CodeAdminApplicationService 引き換えコード管理アプリケーションサービス
//
// 管理者向けのCRUD境界。usage_countには決して触れない。
type CodeAdminApplicationService struct {
	codeRepo redeem_code.RedeemCodeRepository
	logger   *otelinfra.Logger
	metrics  *otelinfra.Metrics
	tracer   trace.Tracer
}

// NewCodeAdminApplicationService 新しいCodeAdminApplicationServiceを作成
func NewCodeAdminApplicationService(
	codeRepo redeem_code.RedeemCodeRepository,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *CodeAdminApplicationService {
	return &CodeAdminApplicationService{
		codeRepo: codeRepo,
		logger:   logger,
		metrics:  metrics,
		tracer:   otel.Tracer("code-admin-service"),
	}
}

// CreateCode 引き換えコードを作成
func (s *CodeAdminApplicationService) CreateCode(ctx context.Context, req *CreateCodeRequest) (*CodeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CodeAdminApplicationService.CreateCode")
	defer span.End()

	span.SetAttributes(
		attribute.String("code", req.Code),
		attribute.String("kind", req.Kind),
		attribute.Bool("master_code", req.MasterCode),
	)

	s.logger.Info(ctx, "Creating redeem code", map[string]interface{}{
		"code":        req.Code,
		"kind":        req.Kind,
		"master_code": req.MasterCode,
		"product_id":  req.ProductID,
		"usage_limit": req.UsageLimit,
	})

	// バリデーション（問題のあるフィールドを全て集める）
	var fields []string
	if redeem_code.Canonicalize(req.Code) == "" {
		fields = append(fields, "code")
	}
	kind, kindErr := redeem_code.NewCodeKind(req.Kind)
	if kindErr != nil {
		fields = append(fields, "kind")
	}
	// スコープ不変条件: master_codeとproduct_idは排他
	if req.MasterCode && req.ProductID != "" {
		fields = append(fields, "master_code", "product_id")
	}
	if !req.MasterCode && req.ProductID == "" {
		fields = append(fields, "product_id")
	}
	if req.UsageLimit < 0 {
		fields = append(fields, "usage_limit")
	}
	var payload redeem_code.Payload
	if kindErr == nil {
		payload, fields = buildPayload(kind, req.DownloadURL, req.FileName, req.PercentOff, req.UnlockProductID, fields)
	}
	if err := validationFailure(fields); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	var scope redeem_code.Scope
	if req.MasterCode {
		scope = redeem_code.NewMasterScope()
	} else {
		var err error
		scope, err = redeem_code.NewProductScope(req.ProductID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
	}

	rc, err := redeem_code.NewRedeemCode(
		uuid.NewString(),
		req.Code,
		kind,
		payload,
		scope,
		req.UsageLimit,
		req.ExpiresAt,
		req.CreatedBy,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to create redeem code entity: %w", err)
	}

	if err := s.codeRepo.Create(ctx, rc); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if err != redeem_code.ErrCodeAlreadyExists {
			s.logger.Error(ctx, "Failed to create redeem code", err, map[string]interface{}{
				"code": rc.Code(),
			})
		}
		return nil, err
	}

	s.logger.Info(ctx, "Redeem code created successfully", map[string]interface{}{
		"id":   rc.ID(),
		"code": rc.Code(),
	})

	return toCodeResponse(rc), nil
}

// UpdateCode 引き換えコードを部分更新
// usage_countはクライアントから設定できない
func (s *CodeAdminApplicationService) UpdateCode(ctx context.Context, req *UpdateCodeRequest) (*CodeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CodeAdminApplicationService.UpdateCode")
	defer span.End()

	span.SetAttributes(attribute.String("id", req.ID))

	s.logger.Info(ctx, "Updating redeem code", map[string]interface{}{
		"id": req.ID,
	})

	rc, err := s.codeRepo.FindByID(ctx, req.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	var fields []string

	if req.Code != nil {
		if redeem_code.Canonicalize(*req.Code) == "" {
			fields = append(fields, "code")
		} else if err := rc.Rename(*req.Code); err != nil {
			fields = append(fields, "code")
		}
	}

	// スコープの再構成（master_code / product_idのどちらかが指定された場合）
	if req.MasterCode != nil || req.ProductID != nil {
		master := rc.Scope().IsMaster()
		productID := rc.Scope().ProductID()
		if req.MasterCode != nil {
			master = *req.MasterCode
		}
		if req.ProductID != nil {
			productID = *req.ProductID
		}
		if master {
			if req.ProductID != nil && *req.ProductID != "" {
				fields = append(fields, "master_code", "product_id")
			} else if err := rc.SetScope(redeem_code.NewMasterScope()); err != nil {
				fields = append(fields, "master_code")
			}
		} else {
			scope, err := redeem_code.NewProductScope(productID)
			if err != nil {
				fields = append(fields, "product_id")
			} else if err := rc.SetScope(scope); err != nil {
				fields = append(fields, "product_id")
			}
		}
	}

	if req.Active != nil {
		rc.SetActive(*req.Active)
	}

	if req.UsageLimit != nil {
		if err := rc.SetUsageLimit(*req.UsageLimit); err != nil {
			fields = append(fields, "usage_limit")
		}
	}

	if req.ExpiresAt != nil {
		rc.SetExpiresAt(*req.ExpiresAt)
	}

	if req.DownloadURL != nil || req.FileName != nil || req.PercentOff != nil || req.UnlockProductID != nil {
		payload, payloadFields := mergePayload(rc, req)
		fields = append(fields, payloadFields...)
		if payload != nil {
			if err := rc.SetPayload(payload); err != nil {
				fields = append(fields, "payload")
			}
		}
	}

	if err := validationFailure(fields); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if err := s.codeRepo.Update(ctx, rc); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if err != redeem_code.ErrCodeNotFound && err != redeem_code.ErrCodeAlreadyExists {
			s.logger.Error(ctx, "Failed to update redeem code", err, map[string]interface{}{
				"id": req.ID,
			})
		}
		return nil, err
	}

	s.logger.Info(ctx, "Redeem code updated successfully", map[string]interface{}{
		"id":   rc.ID(),
		"code": rc.Code(),
	})

	return toCodeResponse(rc), nil
}

// DeleteCode 引き換えコードを削除
func (s *CodeAdminApplicationService) DeleteCode(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CodeAdminApplicationService.DeleteCode")
	defer span.End()

	span.SetAttributes(attribute.String("id", id))

	s.logger.Info(ctx, "Deleting redeem code", map[string]interface{}{
		"id": id,
	})

	if err := s.codeRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if err != redeem_code.ErrCodeNotFound {
			s.logger.Error(ctx, "Failed to delete redeem code", err, map[string]interface{}{
				"id": id,
			})
		}
		return err
	}

	s.logger.Info(ctx, "Redeem code deleted successfully", map[string]interface{}{
		"id": id,
	})
	return nil
}

// GetCode 引き換えコードを取得
func (s *CodeAdminApplicationService) GetCode(ctx context.Context, id string) (*CodeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CodeAdminApplicationService.GetCode")
	defer span.End()

	span.SetAttributes(attribute.String("id", id))

	rc, err := s.codeRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	return toCodeResponse(rc), nil
}

// ListCodes 引き換えコード一覧を取得
func (s *CodeAdminApplicationService) ListCodes(ctx context.Context, req *ListCodesRequest) (*ListCodesResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CodeAdminApplicationService.ListCodes")
	defer span.End()

	span.SetAttributes(
		attribute.Int("limit", req.Limit),
		attribute.Int("offset", req.Offset),
		attribute.String("kind", req.Kind),
	)

	// ページネーションパラメータのバリデーション
	if req.Limit <= 0 {
		req.Limit = 50 // デフォルト値
	}
	if req.Limit > 100 {
		req.Limit = 100 // 最大値
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	// 絞り込みはリポジトリ側でページ切り出しより先に適用する。
	// totalも絞り込み後の件数になる。
	filter := redeem_code.CodeFilter{Kind: req.Kind, Active: req.Active}
	codes, total, err := s.codeRepo.FindAll(ctx, filter, req.Limit, req.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to list redeem codes", err, nil)
		return nil, fmt.Errorf("failed to list redeem codes: %w", err)
	}

	responses := make([]*CodeResponse, 0, len(codes))
	for _, rc := range codes {
		responses = append(responses, toCodeResponse(rc))
	}

	return &ListCodesResponse{
		Codes:  responses,
		Total:  total,
		Limit:  req.Limit,
		Offset: req.Offset,
	}, nil
}

// ListByProduct 商品スコープの引き換えコード一覧を取得
func (s *CodeAdminApplicationService) ListByProduct(ctx context.Context, productID string) ([]*CodeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CodeAdminApplicationService.ListByProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product_id", productID))

	if productID == "" {
		err := validationFailure([]string{"product_id"})
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	codes, err := s.codeRepo.FindByProduct(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to list codes by product: %w", err)
	}

	responses := make([]*CodeResponse, 0, len(codes))
	for _, rc := range codes {
		responses = append(responses, toCodeResponse(rc))
	}
	return responses, nil
}

// ListMasterCodes マスターコード一覧を取得
func (s *CodeAdminApplicationService) ListMasterCodes(ctx context.Context) ([]*CodeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CodeAdminApplicationService.ListMasterCodes")
	defer span.End()

	codes, err := s.codeRepo.FindMasterCodes(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to list master codes: %w", err)
	}

	responses := make([]*CodeResponse, 0, len(codes))
	for _, rc := range codes {
		responses = append(responses, toCodeResponse(rc))
	}
	return responses, nil
}

// ListRedemptions コードの引き換え履歴一覧を取得
func (s *CodeAdminApplicationService) ListRedemptions(ctx context.Context, codeID string, limit, offset int) ([]*RedemptionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CodeAdminApplicationService.ListRedemptions")
	defer span.End()

	span.SetAttributes(attribute.String("code_id", codeID))

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	// コードの存在確認
	if _, err := s.codeRepo.FindByID(ctx, codeID); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	redemptions, err := s.codeRepo.FindRedemptionsByCode(ctx, codeID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}

	responses := make([]*RedemptionResponse, 0, len(redemptions))
	for _, r := range redemptions {
		responses = append(responses, toRedemptionResponse(r))
	}
	return responses, nil
}

// buildPayload 種別に応じたペイロードを構築（不足フィールドをfieldsに追記）
func buildPayload(kind redeem_code.CodeKind, downloadURL, fileName string, percentOff int, unlockProductID string, fields []string) (redeem_code.Payload, []string) {
	switch kind {
	case redeem_code.CodeKindDownload:
		if downloadURL == "" {
			fields = append(fields, "download_url")
		}
		if fileName == "" {
			fields = append(fields, "file_name")
		}
		return redeem_code.NewDownloadPayload(downloadURL, fileName), fields
	case redeem_code.CodeKindDiscount:
		if percentOff < 1 || percentOff > 100 {
			fields = append(fields, "percent_off")
		}
		return redeem_code.NewDiscountPayload(percentOff), fields
	case redeem_code.CodeKindProductUnlock:
		if unlockProductID == "" {
			fields = append(fields, "unlock_product_id")
		}
		return redeem_code.NewProductUnlockPayload(unlockProductID), fields
	default:
		return nil, append(fields, "kind")
	}
}

// mergePayload 既存ペイロードに部分更新を適用
func mergePayload(rc *redeem_code.RedeemCode, req *UpdateCodeRequest) (redeem_code.Payload, []string) {
	var fields []string

	switch p := rc.Payload().(type) {
	case redeem_code.DownloadPayload:
		downloadURL := p.DownloadURL()
		fileName := p.FileName()
		if req.DownloadURL != nil {
			downloadURL = *req.DownloadURL
		}
		if req.FileName != nil {
			fileName = *req.FileName
		}
		if downloadURL == "" {
			fields = append(fields, "download_url")
		}
		if fileName == "" {
			fields = append(fields, "file_name")
		}
		if len(fields) > 0 {
			return nil, fields
		}
		return redeem_code.NewDownloadPayload(downloadURL, fileName), nil
	case redeem_code.DiscountPayload:
		percentOff := p.PercentOff()
		if req.PercentOff != nil {
			percentOff = *req.PercentOff
		}
		if percentOff < 1 || percentOff > 100 {
			return nil, []string{"percent_off"}
		}
		return redeem_code.NewDiscountPayload(percentOff), nil
	case redeem_code.ProductUnlockPayload:
		unlockProductID := p.ProductID()
		if req.UnlockProductID != nil {
			unlockProductID = *req.UnlockProductID
		}
		if unlockProductID == "" {
			return nil, []string{"unlock_product_id"}
		}
		return redeem_code.NewProductUnlockPayload(unlockProductID), nil
	default:
		return nil, []string{"payload"}
	}
}
