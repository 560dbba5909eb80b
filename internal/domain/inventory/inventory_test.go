package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestBranchStock_Apply(t *testing.T) {
	s := NewBranchStock(tenantID, uuid.New(), uuid.New(), nil)
	saleID := uuid.New()

	m, err := s.Increase(MovementTypeIn, d(10), Reference{Type: "purchase"}, nil)
	require.NoError(t, err)
	assert.True(t, m.BalanceAfter.Equal(d(10)))
	assert.Equal(t, 2, s.Version)

	m, err = s.Decrease(MovementTypeSale, d(4), Reference{Type: "sale", ID: &saleID}, nil)
	require.NoError(t, err)
	assert.True(t, m.Quantity.Equal(d(-4)))
	assert.True(t, s.Quantity.Equal(d(6)))
	assert.Equal(t, &saleID, m.ReferenceID)

	_, err = s.Decrease(MovementTypeSale, d(7), Reference{}, nil)
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.ErrorCode(err))
	assert.True(t, s.Quantity.Equal(d(6)), "failed movement leaves quantity unchanged")

	_, err = s.Decrease(MovementTypeSale, d(0), Reference{}, nil)
	assert.Equal(t, "INVALID_QUANTITY", shared.ErrorCode(err))

	_, err = s.Apply("teleport", d(1), Reference{}, "", nil)
	assert.Equal(t, "INVALID_MOVEMENT_TYPE", shared.ErrorCode(err))
}

func TestBranchStock_AdjustTo(t *testing.T) {
	s := NewBranchStock(tenantID, uuid.New(), uuid.New(), nil)
	_, err := s.Increase(MovementTypeIn, d(5), Reference{}, nil)
	require.NoError(t, err)

	_, err = s.AdjustTo(d(3), "", nil)
	assert.Equal(t, "REASON_REQUIRED", shared.ErrorCode(err))

	m, err := s.AdjustTo(d(3), "inventory count", nil)
	require.NoError(t, err)
	assert.Equal(t, MovementTypeAdjustment, m.Type)
	assert.True(t, m.Quantity.Equal(d(-2)))
	assert.True(t, s.Quantity.Equal(d(3)))

	_, err = s.AdjustTo(d(3), "same", nil)
	assert.Equal(t, "INVALID_QUANTITY", shared.ErrorCode(err))
}

func TestBranchStock_IsLow(t *testing.T) {
	s := NewBranchStock(tenantID, uuid.New(), uuid.New(), nil)
	assert.False(t, s.IsLow(), "no threshold means never low")
	require.NoError(t, s.SetMinQuantity(d(2)))
	assert.True(t, s.IsLow())
	_, err := s.Increase(MovementTypeIn, d(3), Reference{}, nil)
	require.NoError(t, err)
	assert.False(t, s.IsLow())
}

func TestTransfer(t *testing.T) {
	product := uuid.New()
	from := NewBranchStock(tenantID, uuid.New(), product, nil)
	to := NewBranchStock(tenantID, uuid.New(), product, nil)
	_, err := from.Increase(MovementTypeIn, d(5), Reference{}, nil)
	require.NoError(t, err)

	out, in, err := Transfer(from, to, d(2), nil)
	require.NoError(t, err)
	assert.Equal(t, MovementTypeTransferOut, out.Type)
	assert.Equal(t, MovementTypeTransferIn, in.Type)
	assert.Equal(t, out.ReferenceID, in.ReferenceID)
	assert.True(t, from.Quantity.Equal(d(3)))
	assert.True(t, to.Quantity.Equal(d(2)))

	_, _, err = Transfer(from, to, d(10), nil)
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.ErrorCode(err))

	_, _, err = Transfer(from, from, d(1), nil)
	assert.Equal(t, "INVALID_TRANSFER", shared.ErrorCode(err))
}
