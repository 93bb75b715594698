package handler

import (
	"context"

	"shop-server/internal/domain/product"
	"shop-server/internal/domain/promotion"
	"shop-server/internal/domain/redeem_code"

	"github.com/stretchr/testify/mock"
)

// MockRedeemCodeRepository モック引き換えコードリポジトリ
type MockRedeemCodeRepository struct {
	mock.Mock
}

func (m *MockRedeemCodeRepository) FindByCode(ctx context.Context, code string) (*redeem_code.RedeemCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redeem_code.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) FindByID(ctx context.Context, id string) (*redeem_code.RedeemCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redeem_code.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) FindByProduct(ctx context.Context, productID string) ([]*redeem_code.RedeemCode, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*redeem_code.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) FindMasterCodes(ctx context.Context) ([]*redeem_code.RedeemCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*redeem_code.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) FindAll(ctx context.Context, filter redeem_code.CodeFilter, limit, offset int) ([]*redeem_code.RedeemCode, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*redeem_code.RedeemCode), args.Int(1), args.Error(2)
}

func (m *MockRedeemCodeRepository) Create(ctx context.Context, code *redeem_code.RedeemCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) Update(ctx context.Context, code *redeem_code.RedeemCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) IncrementUsage(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedeemCodeRepository) SaveRedemption(ctx context.Context, redemption *redeem_code.Redemption) error {
	args := m.Called(ctx, redemption)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) FindRedemptionsByCode(ctx context.Context, codeID string, limit, offset int) ([]*redeem_code.Redemption, error) {
	args := m.Called(ctx, codeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*redeem_code.Redemption), args.Error(1)
}

// MockProductRepository モック商品リポジトリ
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, limit, offset int) ([]*product.Product, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*product.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) Create(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPromotionRepository モックプロモーションリポジトリ
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) FindByID(ctx context.Context, id string) (*promotion.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) FindAll(ctx context.Context, limit, offset int) ([]*promotion.Promotion, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*promotion.Promotion), args.Int(1), args.Error(2)
}

func (m *MockPromotionRepository) Create(ctx context.Context, p *promotion.Promotion) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPromotionRepository) Update(ctx context.Context, p *promotion.Promotion) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPromotionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
