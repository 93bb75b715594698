package mysql

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"shop-server/internal/domain/redeem_code"
)

func newTestRedeemCodeRepo(t *testing.T) (*RedeemCodeRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := &RedeemCodeRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}
	return repo, mock, func() { db.Close() }
}

func redeemCodeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "kind", "payload", "master_code", "product_id",
		"active", "usage_limit", "usage_count", "expires_at",
		"created_by", "created_at", "updated_at",
	})
}

func TestRedeemCodeRepository_FindByCode(t *testing.T) {
	repo, mock, cleanup := newTestRedeemCodeRepo(t)
	defer cleanup()

	payload := `{"download_url":"https://cdn.example.com/album.zip","file_name":"album.zip"}`

	tests := []struct {
		name      string
		code      string
		setupMock func()
		wantError bool
		errorType error
		check     func(t *testing.T, got *redeem_code.RedeemCode)
	}{
		{
			name: "正常系: コードが見つかる",
			code: "SUMMER-2025",
			setupMock: func() {
				rows := redeemCodeRows().
					AddRow("code_1", "SUMMER-2025", "download", payload, false, "prod_123",
						true, 100, 42, nil, "admin001", time.Now(), time.Now())
				mock.ExpectQuery(`SELECT`).
					WithArgs("SUMMER-2025").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, got *redeem_code.RedeemCode) {
				assert.Equal(t, "SUMMER-2025", got.Code())
				assert.Equal(t, redeem_code.CodeKindDownload, got.Kind())
				assert.Equal(t, "prod_123", got.Scope().ProductID())
				assert.Equal(t, 42, got.UsageCount())
				assert.False(t, got.HasExpiry())
			},
		},
		{
			name: "正常系: 検索前にコードが正規化される",
			code: "  summer-2025  ",
			setupMock: func() {
				rows := redeemCodeRows().
					AddRow("code_1", "SUMMER-2025", "download", payload, false, "prod_123",
						true, 100, 0, nil, "admin001", time.Now(), time.Now())
				mock.ExpectQuery(`SELECT`).
					WithArgs("SUMMER-2025").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, got *redeem_code.RedeemCode) {
				assert.Equal(t, "SUMMER-2025", got.Code())
			},
		},
		{
			name: "正常系: 無効化されたコードも取得できる",
			code: "DISABLED",
			setupMock: func() {
				rows := redeemCodeRows().
					AddRow("code_2", "DISABLED", "download", payload, true, nil,
						false, 0, 0, nil, "admin001", time.Now(), time.Now())
				mock.ExpectQuery(`SELECT`).
					WithArgs("DISABLED").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, got *redeem_code.RedeemCode) {
				assert.False(t, got.Active())
				assert.True(t, got.Scope().IsMaster())
			},
		},
		{
			name: "異常系: コードが見つからない",
			code: "MISSING",
			setupMock: func() {
				mock.ExpectQuery(`SELECT`).
					WithArgs("MISSING").
					WillReturnError(sql.ErrNoRows)
			},
			wantError: true,
			errorType: redeem_code.ErrCodeNotFound,
		},
		{
			name: "異常系: DBエラー",
			code: "SUMMER-2025",
			setupMock: func() {
				mock.ExpectQuery(`SELECT`).
					WithArgs("SUMMER-2025").
					WillReturnError(sql.ErrConnDone)
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()
			got, err := repo.FindByCode(context.Background(), tt.code)

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorType != nil {
					assert.ErrorIs(t, err, tt.errorType)
				}
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				tt.check(t, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedeemCodeRepository_FindAll(t *testing.T) {
	repo, mock, cleanup := newTestRedeemCodeRepo(t)
	defer cleanup()

	payload := `{"download_url":"https://cdn.example.com/album.zip","file_name":"album.zip"}`

	t.Run("正常系: 絞り込みなしの一覧と総件数", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM redeem_codes`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		rows := redeemCodeRows().
			AddRow("code_1", "SUMMER-2025", "download", payload, true, nil,
				true, 100, 0, nil, "admin001", time.Now(), time.Now()).
			AddRow("code_2", "WINTER-2025", "download", payload, true, nil,
				true, 0, 0, nil, "admin001", time.Now(), time.Now())
		mock.ExpectQuery(`SELECT`).
			WithArgs(50, 0).
			WillReturnRows(rows)

		codes, total, err := repo.FindAll(context.Background(), redeem_code.CodeFilter{}, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, codes, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("正常系: 絞り込み条件はCOUNTと一覧の両方に適用される", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM redeem_codes WHERE kind = \? AND active = \?`).
			WithArgs("download", true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		rows := redeemCodeRows().
			AddRow("code_1", "SUMMER-2025", "download", payload, true, nil,
				true, 100, 0, nil, "admin001", time.Now(), time.Now())
		mock.ExpectQuery(`FROM redeem_codes WHERE kind = \? AND active = \? ORDER BY created_at`).
			WithArgs("download", true, 50, 0).
			WillReturnRows(rows)

		active := true
		codes, total, err := repo.FindAll(context.Background(), redeem_code.CodeFilter{Kind: "download", Active: &active}, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, codes, 1)
		assert.Equal(t, "code_1", codes[0].ID())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: COUNTのDBエラー", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM redeem_codes`).
			WillReturnError(sql.ErrConnDone)

		_, _, err := repo.FindAll(context.Background(), redeem_code.CodeFilter{}, 50, 0)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedeemCodeRepository_Create(t *testing.T) {
	repo, mock, cleanup := newTestRedeemCodeRepo(t)
	defer cleanup()

	scope, err := redeem_code.NewProductScope("prod_123")
	require.NoError(t, err)
	rc := redeem_code.MustNewRedeemCode(
		"code_1", "SUMMER-2025", redeem_code.CodeKindDownload,
		redeem_code.NewDownloadPayload("https://cdn.example.com/album.zip", "album.zip"),
		scope, 100, time.Time{}, "admin001",
	)

	tests := []struct {
		name      string
		setupMock func()
		wantError bool
		errorType error
	}{
		{
			name: "正常系: コードを作成",
			setupMock: func() {
				mock.ExpectExec(`INSERT INTO redeem_codes`).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "異常系: 一意制約違反でErrCodeAlreadyExists",
			setupMock: func() {
				mock.ExpectExec(`INSERT INTO redeem_codes`).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
			wantError: true,
			errorType: redeem_code.ErrCodeAlreadyExists,
		},
		{
			name: "異常系: DBエラー",
			setupMock: func() {
				mock.ExpectExec(`INSERT INTO redeem_codes`).
					WillReturnError(sql.ErrConnDone)
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()
			err := repo.Create(context.Background(), rc)

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorType != nil {
					assert.ErrorIs(t, err, tt.errorType)
				}
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedeemCodeRepository_Update(t *testing.T) {
	repo, mock, cleanup := newTestRedeemCodeRepo(t)
	defer cleanup()

	rc := redeem_code.MustNewRedeemCode(
		"code_1", "SUMMER-2025", redeem_code.CodeKindDownload,
		redeem_code.NewDownloadPayload("https://cdn.example.com/album.zip", "album.zip"),
		redeem_code.NewMasterScope(), 100, time.Time{}, "admin001",
	)

	tests := []struct {
		name      string
		setupMock func()
		wantError bool
		errorType error
	}{
		{
			name: "正常系: コードを更新",
			setupMock: func() {
				mock.ExpectExec(`UPDATE redeem_codes`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "異常系: 対象行がない場合はErrCodeNotFound",
			setupMock: func() {
				mock.ExpectExec(`UPDATE redeem_codes`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantError: true,
			errorType: redeem_code.ErrCodeNotFound,
		},
		{
			name: "異常系: 一意制約違反でErrCodeAlreadyExists",
			setupMock: func() {
				mock.ExpectExec(`UPDATE redeem_codes`).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
			wantError: true,
			errorType: redeem_code.ErrCodeAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()
			err := repo.Update(context.Background(), rc)

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorType != nil {
					assert.ErrorIs(t, err, tt.errorType)
				}
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedeemCodeRepository_IncrementUsage(t *testing.T) {
	repo, mock, cleanup := newTestRedeemCodeRepo(t)
	defer cleanup()

	tests := []struct {
		name            string
		setupMock       func()
		wantIncremented bool
		wantError       bool
	}{
		{
			name: "正常系: 上限未満で加算成功",
			setupMock: func() {
				mock.ExpectExec(`UPDATE redeem_codes`).
					WithArgs("code_1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantIncremented: true,
		},
		{
			name: "正常系: ガード条件を満たさず加算されない",
			setupMock: func() {
				mock.ExpectExec(`UPDATE redeem_codes`).
					WithArgs("code_1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantIncremented: false,
		},
		{
			name: "異常系: DBエラー",
			setupMock: func() {
				mock.ExpectExec(`UPDATE redeem_codes`).
					WithArgs("code_1").
					WillReturnError(sql.ErrConnDone)
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()
			incremented, err := repo.IncrementUsage(context.Background(), "code_1")

			if tt.wantError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantIncremented, incremented)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedeemCodeRepository_Delete(t *testing.T) {
	repo, mock, cleanup := newTestRedeemCodeRepo(t)
	defer cleanup()

	tests := []struct {
		name      string
		setupMock func()
		wantError bool
		errorType error
	}{
		{
			name: "正常系: コードを削除",
			setupMock: func() {
				mock.ExpectExec(`DELETE FROM redeem_codes`).
					WithArgs("code_1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "異常系: 対象行がない場合はErrCodeNotFound",
			setupMock: func() {
				mock.ExpectExec(`DELETE FROM redeem_codes`).
					WithArgs("code_1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantError: true,
			errorType: redeem_code.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()
			err := repo.Delete(context.Background(), "code_1")

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorType != nil {
					assert.ErrorIs(t, err, tt.errorType)
				}
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedeemCodeRepository_SaveRedemption(t *testing.T) {
	repo, mock, cleanup := newTestRedeemCodeRepo(t)
	defer cleanup()

	redemption := redeem_code.NewRedemption("red_1", "code_1", "SUMMER-2025", "prod_123", redeem_code.ScopeTypeProduct)

	mock.ExpectExec(`INSERT INTO code_redemptions`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveRedemption(context.Background(), redemption)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCodeRepository_FindRedemptionsByCode(t *testing.T) {
	repo, mock, cleanup := newTestRedeemCodeRepo(t)
	defer cleanup()

	redeemedAt := time.Now()
	rows := sqlmock.NewRows([]string{
		"redemption_id", "code_id", "code", "product_id", "code_type", "redeemed_at",
	}).
		AddRow("red_1", "code_1", "SUMMER-2025", "prod_123", "product", redeemedAt).
		AddRow("red_2", "code_1", "SUMMER-2025", "prod_123", "product", redeemedAt.Add(-time.Hour))

	mock.ExpectQuery(`SELECT`).
		WithArgs("code_1", 50, 0).
		WillReturnRows(rows)

	got, err := repo.FindRedemptionsByCode(context.Background(), "code_1", 50, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "red_1", got[0].RedemptionID())
	assert.Equal(t, redeem_code.ScopeTypeProduct, got[0].CodeType())
	assert.NoError(t, mock.ExpectationsWereMet())
}
