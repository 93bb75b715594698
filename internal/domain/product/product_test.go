package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		productName string
		priceCents  int64
		wantError   bool
	}{
		{
			name:        "正常系: 商品を作成",
			id:          "prod_123",
			productName: "Summer Album",
			priceCents:  1500,
			wantError:   false,
		},
		{
			name:        "正常系: 価格0円の商品",
			id:          "prod_123",
			productName: "Free Sample",
			priceCents:  0,
			wantError:   false,
		},
		{
			name:        "異常系: IDが空",
			id:          "",
			productName: "Summer Album",
			priceCents:  1500,
			wantError:   true,
		},
		{
			name:        "異常系: 商品名が空",
			id:          "prod_123",
			productName: "",
			priceCents:  1500,
			wantError:   true,
		},
		{
			name:        "異常系: 価格がマイナス",
			id:          "prod_123",
			productName: "Summer Album",
			priceCents:  -1,
			wantError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.id, tt.productName, "Digital album", tt.priceCents, "https://cdn.example.com/cover.jpg")

			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				require.NotNil(t, p)
				assert.Equal(t, tt.id, p.ID())
				assert.Equal(t, tt.productName, p.Name())
				assert.Equal(t, tt.priceCents, p.PriceCents())
				assert.True(t, p.Active())
				assert.False(t, p.CreatedAt().IsZero())
			}
		})
	}
}

func TestProduct_Rename(t *testing.T) {
	p, err := NewProduct("prod_123", "Summer Album", "", 1500, "")
	require.NoError(t, err)

	t.Run("正常系: 商品名を変更", func(t *testing.T) {
		err := p.Rename("Winter Album")
		require.NoError(t, err)
		assert.Equal(t, "Winter Album", p.Name())
	})

	t.Run("異常系: 空の商品名", func(t *testing.T) {
		err := p.Rename("")
		assert.Error(t, err)
		assert.Equal(t, "Winter Album", p.Name())
	})
}

func TestProduct_SetPriceCents(t *testing.T) {
	p, err := NewProduct("prod_123", "Summer Album", "", 1500, "")
	require.NoError(t, err)

	t.Run("正常系: 価格を変更", func(t *testing.T) {
		err := p.SetPriceCents(1800)
		require.NoError(t, err)
		assert.Equal(t, int64(1800), p.PriceCents())
	})

	t.Run("異常系: マイナス価格", func(t *testing.T) {
		err := p.SetPriceCents(-100)
		assert.Error(t, err)
		assert.Equal(t, int64(1800), p.PriceCents())
	})
}

func TestProduct_SetActive(t *testing.T) {
	p, err := NewProduct("prod_123", "Summer Album", "", 1500, "")
	require.NoError(t, err)

	p.SetActive(false)
	assert.False(t, p.Active())

	p.SetActive(true)
	assert.True(t, p.Active())
}
