package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shop-server/internal/domain/redeem_code"
)

// mysqlErrDuplicateEntry MySQLの一意制約違反エラーコード
const mysqlErrDuplicateEntry = 1062

// redeemCodeColumns SELECTで取得するカラム一覧
const redeemCodeColumns = `
	id, code, kind, payload, master_code, product_id,
	active, usage_limit, usage_count, expires_at,
	created_by, created_at, updated_at
`

// RedeemCodeRepository MySQL実装のRedeemCodeRepository
type RedeemCodeRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewRedeemCodeRepository 新しいRedeemCodeRepositoryを作成
func NewRedeemCodeRepository(db *DB) *RedeemCodeRepository {
	return &RedeemCodeRepository{
		db:     db,
		tracer: otel.Tracer("redeem-code-repository"),
	}
}

// rowScanner sql.RowとsqlmockのRowsの両方を受け付けるスキャナ
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRedeemCode 1行分のレコードからエンティティを復元
func scanRedeemCode(row rowScanner) (*redeem_code.RedeemCode, error) {
	var (
		id, codeStr, kindStr, createdBy string
		payloadJSON                     sql.NullString
		masterCode                      bool
		productID                       sql.NullString
		active                          bool
		usageLimit, usageCount          int
		expiresAt                       sql.NullTime
		createdAt, updatedAt            time.Time
	)

	if err := row.Scan(
		&id,
		&codeStr,
		&kindStr,
		&payloadJSON,
		&masterCode,
		&productID,
		&active,
		&usageLimit,
		&usageCount,
		&expiresAt,
		&createdBy,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	kind, err := redeem_code.NewCodeKind(kindStr)
	if err != nil {
		return nil, fmt.Errorf("invalid code kind: %w", err)
	}

	var payloadData []byte
	if payloadJSON.Valid {
		payloadData = []byte(payloadJSON.String)
	}
	payload, err := redeem_code.UnmarshalPayload(kind, payloadData)
	if err != nil {
		return nil, err
	}

	var scope redeem_code.Scope
	if masterCode {
		scope = redeem_code.NewMasterScope()
	} else {
		scope, err = redeem_code.NewProductScope(productID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid scope: %w", err)
		}
	}

	var expiry time.Time
	if expiresAt.Valid {
		expiry = expiresAt.Time
	}

	rc, err := redeem_code.NewRedeemCode(id, codeStr, kind, payload, scope, usageLimit, expiry, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild redeem code: %w", err)
	}

	// DB上の状態を反映
	if !active {
		rc.SetActive(false)
	}
	rc.SetUsageCount(usageCount)
	rc.SetTimestamps(createdAt, updatedAt)

	return rc, nil
}

// FindByCode 正規化済みコードで引き換えコードを取得
func (r *RedeemCodeRepository) FindByCode(ctx context.Context, code string) (*redeem_code.RedeemCode, error) {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.FindByCode")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.code", code),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "redeem_codes"),
	)

	query := `SELECT ` + redeemCodeColumns + ` FROM redeem_codes WHERE code = ?`

	rc, err := scanRedeemCode(r.db.QueryRowContext(ctx, query, redeem_code.Canonicalize(code)))
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "redeem code not found")
		return nil, redeem_code.ErrCodeNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find redeem code: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "redeem code found")
	return rc, nil
}

// FindByID IDで引き換えコードを取得
func (r *RedeemCodeRepository) FindByID(ctx context.Context, id string) (*redeem_code.RedeemCode, error) {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", id),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "redeem_codes"),
	)

	query := `SELECT ` + redeemCodeColumns + ` FROM redeem_codes WHERE id = ?`

	rc, err := scanRedeemCode(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "redeem code not found")
		return nil, redeem_code.ErrCodeNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find redeem code: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "redeem code found")
	return rc, nil
}

// FindByProduct 商品スコープの引き換えコード一覧を取得
func (r *RedeemCodeRepository) FindByProduct(ctx context.Context, productID string) ([]*redeem_code.RedeemCode, error) {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.FindByProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.product_id", productID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "redeem_codes"),
	)

	query := `SELECT ` + redeemCodeColumns + ` FROM redeem_codes WHERE master_code = FALSE AND product_id = ? ORDER BY created_at DESC`

	return r.queryCodes(ctx, span, query, productID)
}

// FindMasterCodes マスターコード一覧を取得
func (r *RedeemCodeRepository) FindMasterCodes(ctx context.Context) ([]*redeem_code.RedeemCode, error) {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.FindMasterCodes")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "redeem_codes"),
	)

	query := `SELECT ` + redeemCodeColumns + ` FROM redeem_codes WHERE master_code = TRUE ORDER BY created_at DESC`

	return r.queryCodes(ctx, span, query)
}

// FindAll 引き換えコード一覧を取得（絞り込み後の総件数付き）
//
// 絞り込みはWHERE句としてCOUNTと一覧の両方に適用するため、
// totalとページ内容は常に同じ条件を反映する。
func (r *RedeemCodeRepository) FindAll(ctx context.Context, filter redeem_code.CodeFilter, limit, offset int) ([]*redeem_code.RedeemCode, int, error) {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.FindAll")
	defer span.End()

	span.SetAttributes(
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "redeem_codes"),
	)

	where := ""
	var filterArgs []interface{}
	var conds []string
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		filterArgs = append(filterArgs, filter.Kind)
	}
	if filter.Active != nil {
		conds = append(conds, "active = ?")
		filterArgs = append(filterArgs, *filter.Active)
	}
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM redeem_codes`+where, filterArgs...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count redeem codes: %w", err)
	}

	query := `SELECT ` + redeemCodeColumns + ` FROM redeem_codes` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`

	codes, err := r.queryCodes(ctx, span, query, append(filterArgs, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("db.total", total))
	return codes, total, nil
}

// queryCodes 複数行クエリを実行してエンティティ一覧を返す
func (r *RedeemCodeRepository) queryCodes(ctx context.Context, span trace.Span, query string, args ...interface{}) ([]*redeem_code.RedeemCode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query redeem codes: %w", err)
	}
	defer rows.Close()

	var codes []*redeem_code.RedeemCode
	for rows.Next() {
		rc, err := scanRedeemCode(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		codes = append(codes, rc)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate redeem codes: %w", err)
	}

	span.SetAttributes(attribute.Int("db.count", len(codes)))
	span.SetStatus(otelcodes.Ok, "redeem codes queried")
	return codes, nil
}

// Create 引き換えコードを作成
func (r *RedeemCodeRepository) Create(ctx context.Context, code *redeem_code.RedeemCode) error {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", code.ID()),
		attribute.String("db.code", code.Code()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "redeem_codes"),
	)

	payloadJSON, err := redeem_code.MarshalPayload(code.Payload())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO redeem_codes (
			id, code, kind, payload, master_code, product_id,
			active, usage_limit, usage_count, expires_at,
			created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		code.ID(),
		code.Code(),
		code.Kind().String(),
		string(payloadJSON),
		code.Scope().IsMaster(),
		nullableString(code.Scope().ProductID()),
		code.Active(),
		code.UsageLimit(),
		code.UsageCount(),
		nullableTime(code.ExpiresAt()),
		code.CreatedBy(),
		code.CreatedAt(),
		code.UpdatedAt(),
	)

	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			span.SetStatus(otelcodes.Ok, "duplicate code")
			return redeem_code.ErrCodeAlreadyExists
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create redeem code: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "redeem code created")
	return nil
}

// Update 引き換えコードの設定フィールドを更新
// usage_countはこのクエリでは決して書き換えない（IncrementUsage専用）
func (r *RedeemCodeRepository) Update(ctx context.Context, code *redeem_code.RedeemCode) error {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", code.ID()),
		attribute.String("db.code", code.Code()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "redeem_codes"),
	)

	payloadJSON, err := redeem_code.MarshalPayload(code.Payload())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		UPDATE redeem_codes
		SET
			code = ?,
			payload = ?,
			master_code = ?,
			product_id = ?,
			active = ?,
			usage_limit = ?,
			expires_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		code.Code(),
		string(payloadJSON),
		code.Scope().IsMaster(),
		nullableString(code.Scope().ProductID()),
		code.Active(),
		code.UsageLimit(),
		nullableTime(code.ExpiresAt()),
		code.ID(),
	)

	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			span.SetStatus(otelcodes.Ok, "duplicate code")
			return redeem_code.ErrCodeAlreadyExists
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to update redeem code: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Ok, "redeem code not found")
		return redeem_code.ErrCodeNotFound
	}

	span.SetStatus(otelcodes.Ok, "redeem code updated")
	return nil
}

// Delete 引き換えコードを削除
func (r *RedeemCodeRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", id),
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.table", "redeem_codes"),
	)

	result, err := r.db.ExecContext(ctx, `DELETE FROM redeem_codes WHERE id = ?`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to delete redeem code: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Ok, "redeem code not found")
		return redeem_code.ErrCodeNotFound
	}

	span.SetStatus(otelcodes.Ok, "redeem code deleted")
	return nil
}

// IncrementUsage 使用回数をアトミックにインクリメント
//
// 上限チェックとインクリメントを単一のUPDATE文で行うため、
// 同一コードに対する並行呼び出しがあってもusage_countが
// usage_limitを超えることはない。加算できなかった場合はfalseを返す。
func (r *RedeemCodeRepository) IncrementUsage(ctx context.Context, id string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.IncrementUsage")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.id", id),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "redeem_codes"),
	)

	query := `
		UPDATE redeem_codes
		SET usage_count = usage_count + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND (usage_limit = 0 OR usage_count < usage_limit)
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return false, fmt.Errorf("failed to increment usage: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	incremented := rowsAffected > 0
	span.SetAttributes(attribute.Bool("db.incremented", incremented))
	span.SetStatus(otelcodes.Ok, "increment attempted")
	return incremented, nil
}

// SaveRedemption 引き換え履歴を保存
func (r *RedeemCodeRepository) SaveRedemption(ctx context.Context, redemption *redeem_code.Redemption) error {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.SaveRedemption")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.redemption_id", redemption.RedemptionID()),
		attribute.String("db.code", redemption.Code()),
		attribute.String("db.product_id", redemption.ProductID()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "code_redemptions"),
	)

	query := `
		INSERT INTO code_redemptions (
			redemption_id, code_id, code, product_id, code_type, redeemed_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		redemption.RedemptionID(),
		redemption.CodeID(),
		redemption.Code(),
		redemption.ProductID(),
		string(redemption.CodeType()),
		redemption.RedeemedAt(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save redemption: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "redemption saved")
	return nil
}

// FindRedemptionsByCode コードIDで引き換え履歴一覧を取得
func (r *RedeemCodeRepository) FindRedemptionsByCode(ctx context.Context, codeID string, limit, offset int) ([]*redeem_code.Redemption, error) {
	ctx, span := r.tracer.Start(ctx, "RedeemCodeRepository.FindRedemptionsByCode")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.code_id", codeID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "code_redemptions"),
	)

	query := `
		SELECT redemption_id, code_id, code, product_id, code_type, redeemed_at
		FROM code_redemptions
		WHERE code_id = ?
		ORDER BY redeemed_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, codeID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []*redeem_code.Redemption
	for rows.Next() {
		var (
			redemptionID, cID, codeStr, productID, codeType string
			redeemedAt                                      time.Time
		)
		if err := rows.Scan(&redemptionID, &cID, &codeStr, &productID, &codeType, &redeemedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan redemption: %w", err)
		}
		redemption := redeem_code.NewRedemption(redemptionID, cID, codeStr, productID, redeem_code.ScopeType(codeType))
		redemption.SetRedeemedAt(redeemedAt)
		redemptions = append(redemptions, redemption)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate redemptions: %w", err)
	}

	span.SetAttributes(attribute.Int("db.count", len(redemptions)))
	span.SetStatus(otelcodes.Ok, "redemptions queried")
	return redemptions, nil
}

// nullableString 空文字をNULLにマッピング
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullableTime ゼロ値をNULLにマッピング
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
