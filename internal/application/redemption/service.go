package redemption

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shop-server/internal/domain/redeem_code"
	otelinfra "shop-server/internal/infrastructure/observability/otel"
)

// RedemptionApplicationService コード引き換えアプリケーションサービス
//
// 引き換えトランザクションのコーディネーター。
// 取得 → 判定 → アトミックな使用回数加算 → ダウンロード記述子の組み立て
// を調停する。拒否時には一切の状態変更を行わない。
type RedemptionApplicationService struct {
	codeRepo redeem_code.RedeemCodeRepository
	logger   *otelinfra.Logger
	metrics  *otelinfra.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewRedemptionApplicationService 新しいRedemptionApplicationServiceを作成
func NewRedemptionApplicationService(
	codeRepo redeem_code.RedeemCodeRepository,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *RedemptionApplicationService {
	return &RedemptionApplicationService{
		codeRepo: codeRepo,
		logger:   logger,
		metrics:  metrics,
		tracer:   otel.Tracer("redemption-service"),
		now:      time.Now,
	}
}

// Redeem コードを引き換える
//
// 判定時の使用回数チェックは楽観的な事前判定に過ぎない。
// 確定判定はIncrementUsage内で再適用され、並行する引き換えに
// 最後の1枠を取られた場合はErrUsageLimitReachedとして報告される。
func (s *RedemptionApplicationService) Redeem(ctx context.Context, req *RedeemRequest) (*RedeemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "RedemptionApplicationService.Redeem")
	defer span.End()

	canonical := redeem_code.Canonicalize(req.Code)

	span.SetAttributes(
		attribute.String("code", canonical),
		attribute.String("product_id", req.ProductID),
	)

	s.logger.Info(ctx, "Redeeming code", map[string]interface{}{
		"code":       canonical,
		"product_id": req.ProductID,
	})

	// コードを取得（存在しない場合はnilのまま判定に回す）
	record, err := s.codeRepo.FindByCode(ctx, canonical)
	if err != nil && !errors.Is(err, redeem_code.ErrCodeNotFound) {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find code: %w", err)
	}

	// 引き換え可否を判定
	decision := redeem_code.Evaluate(record, req.ProductID, s.now())
	if !decision.Accepted() {
		return nil, s.reject(ctx, span, canonical, decision.Reason().String(), decision.Err())
	}

	// 引き換え経路で消費できるのはダウンロードコードのみ
	if !record.Kind().Redeemable() {
		return nil, s.reject(ctx, span, canonical, "kind_not_redeemable", redeem_code.ErrKindNotRedeemable)
	}

	// 使用回数をアトミックに加算（TOCTOUガード）
	incremented, err := s.codeRepo.IncrementUsage(ctx, record.ID())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to increment usage: %w", err)
	}
	if !incremented {
		// 判定後に並行リクエストが最後の枠を消費したケース
		return nil, s.reject(ctx, span, canonical, redeem_code.ReasonUsageLimitReached.String(), redeem_code.ErrUsageLimitReached)
	}

	codeType := string(record.Scope().Type())

	// 引き換え履歴を記録（加算は確定済みのため、失敗してもロールバックしない）
	redemption := redeem_code.NewRedemption(
		uuid.NewString(),
		record.ID(),
		record.Code(),
		req.ProductID,
		record.Scope().Type(),
	)
	if err := s.codeRepo.SaveRedemption(ctx, redemption); err != nil {
		span.RecordError(err)
		s.logger.Error(ctx, "Failed to save redemption record", err, map[string]interface{}{
			"code":          canonical,
			"redemption_id": redemption.RedemptionID(),
		})
	}

	payload, ok := record.Payload().(redeem_code.DownloadPayload)
	if !ok {
		err := fmt.Errorf("unexpected payload type for download code: %T", record.Payload())
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	s.metrics.RecordRedemption(ctx, codeType)
	s.metrics.RecordCodeUsage(ctx, record.Code(), int64(record.UsageCount()+1))

	s.logger.Info(ctx, "Code redeemed successfully", map[string]interface{}{
		"code":          canonical,
		"product_id":    req.ProductID,
		"redemption_id": redemption.RedemptionID(),
		"code_type":     codeType,
	})

	return &RedeemResponse{
		RedemptionID: redemption.RedemptionID(),
		Code:         record.Code(),
		DownloadURL:  payload.DownloadURL(),
		FileName:     payload.FileName(),
		CodeType:     codeType,
	}, nil
}

// reject 拒否を記録して理由エラーを返す
func (s *RedemptionApplicationService) reject(ctx context.Context, span trace.Span, code, reason string, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	span.SetAttributes(attribute.String("reject_reason", reason))

	s.logger.Warn(ctx, "Redemption rejected", map[string]interface{}{
		"code":   code,
		"reason": reason,
	})
	s.metrics.RecordRedemptionRejection(ctx, reason)
	return err
}
