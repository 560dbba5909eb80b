package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func item(qty, price int64) ItemInput {
	return ItemInput{
		ProductID:   uuid.New(),
		Description: "Tempered glass",
		Quantity:    d(qty),
		ListPrice:   d(price),
		UnitPrice:   d(price),
		Discount:    decimal.Zero,
	}
}

func TestNewSale_Totals(t *testing.T) {
	s, err := NewSale(tenantID, uuid.New(), uuid.New(), nil,
		[]ItemInput{item(2, 50), item(1, 100)},
		d(20),
		[]PaymentInput{{Method: PaymentMethodPix, Amount: d(100)}, {Method: PaymentMethodCash, Amount: d(100)}},
		"")
	require.NoError(t, err)
	assert.True(t, s.Subtotal.Equal(d(200)))
	assert.True(t, s.Total.Equal(d(180)))
	assert.True(t, s.PaidAmount.Equal(d(180)))
	assert.True(t, s.ChangeAmount.Equal(d(20)))
	assert.True(t, s.Balance().IsZero())
	assert.Equal(t, SaleStatusCompleted, s.Status)
	require.Len(t, s.Items, 2)
	assert.Equal(t, s.ID, s.Items[0].SaleID)
	assert.Equal(t, 1, s.Payments[0].Installments)
}

func TestNewSale_Validation(t *testing.T) {
	seller := uuid.New()
	customer := uuid.New()
	cash := func(v int64) []PaymentInput { return []PaymentInput{{Method: PaymentMethodCash, Amount: d(v)}} }

	tests := []struct {
		name     string
		customer *uuid.UUID
		items    []ItemInput
		discount decimal.Decimal
		payments []PaymentInput
		code     string
	}{
		{"no items", nil, nil, decimal.Zero, cash(1), "EMPTY_SALE"},
		{"zero quantity", nil, []ItemInput{item(0, 10)}, decimal.Zero, cash(10), "INVALID_QUANTITY"},
		{"discount above subtotal", nil, []ItemInput{item(1, 10)}, d(11), nil, "INVALID_DISCOUNT"},
		{"unknown method", nil, []ItemInput{item(1, 10)}, decimal.Zero, []PaymentInput{{Method: "bitcoin", Amount: d(10)}}, "INVALID_PAYMENT_METHOD"},
		{"card overpayment", nil, []ItemInput{item(1, 10)}, decimal.Zero, []PaymentInput{{Method: PaymentMethodDebitCard, Amount: d(20)}}, "INVALID_PAYMENT"},
		{"installments on pix", nil, []ItemInput{item(1, 10)}, decimal.Zero, []PaymentInput{{Method: PaymentMethodPix, Amount: d(10), Installments: 3}}, "INVALID_PAYMENT"},
		{"open balance without customer", nil, []ItemInput{item(1, 10)}, decimal.Zero, cash(5), "CUSTOMER_REQUIRED"},
		{"open balance with customer", &customer, []ItemInput{item(1, 10)}, decimal.Zero, cash(5), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSale(tenantID, uuid.New(), seller, tt.customer, tt.items, tt.discount, tt.payments, "")
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.code, shared.ErrorCode(err))
		})
	}
}

func TestSale_AssignNumberPublishesCompleted(t *testing.T) {
	s, err := NewSale(tenantID, uuid.New(), uuid.New(), nil, []ItemInput{item(1, 10)}, decimal.Zero,
		[]PaymentInput{{Method: PaymentMethodCash, Amount: d(10)}}, "")
	require.NoError(t, err)
	s.AssignNumber("VD-20260310-0001")
	require.Len(t, s.GetDomainEvents(), 1)
	ev := s.GetDomainEvents()[0].(*SaleCompletedEvent)
	assert.Equal(t, "VD-20260310-0001", ev.Number)
	assert.True(t, ev.Total.Equal(d(10)))
	assert.Len(t, ev.Lines, 1)
}

func TestSale_Cancel(t *testing.T) {
	s, err := NewSale(tenantID, uuid.New(), uuid.New(), nil, []ItemInput{item(1, 10)}, decimal.Zero,
		[]PaymentInput{{Method: PaymentMethodCash, Amount: d(10)}}, "")
	require.NoError(t, err)

	assert.Equal(t, "REASON_REQUIRED", shared.ErrorCode(s.Cancel("", time.Now())))
	require.NoError(t, s.Cancel("wrong item", time.Now()))
	assert.Equal(t, SaleStatusCancelled, s.Status)
	assert.NotNil(t, s.CancelledAt)
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(s.Cancel("again", time.Now())))
}

func TestSale_RegisterReturn(t *testing.T) {
	in := item(3, 30)
	in.Discount = d(9)
	s, err := NewSale(tenantID, uuid.New(), uuid.New(), nil, []ItemInput{in, item(1, 10)}, decimal.Zero,
		[]PaymentInput{{Method: PaymentMethodCash, Amount: d(91)}}, "")
	require.NoError(t, err)
	first, second := s.Items[0].ID, s.Items[1].ID
	user := uuid.New()

	r, err := s.RegisterReturn([]ReturnLine{{SaleItemID: first, Quantity: d(1)}}, "defect", PaymentMethodCash, user, OpenBalance{})
	require.NoError(t, err)
	assert.True(t, r.RefundAmount.Equal(d(27)), "refund is the net amount of the line: %s", r.RefundAmount)
	assert.Equal(t, SaleStatusPartiallyReturned, s.Status)
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(s.Cancel("late", time.Now())))

	_, err = s.RegisterReturn([]ReturnLine{{SaleItemID: first, Quantity: d(2)}, {SaleItemID: first, Quantity: d(1)}}, "defect", PaymentMethodCash, user, OpenBalance{})
	assert.Equal(t, "RETURN_EXCEEDS_SOLD", shared.ErrorCode(err))

	_, err = s.RegisterReturn([]ReturnLine{{SaleItemID: uuid.New(), Quantity: d(1)}}, "defect", PaymentMethodCash, user, OpenBalance{})
	assert.Equal(t, "ITEM_NOT_FOUND", shared.ErrorCode(err))

	r, err = s.RegisterReturn([]ReturnLine{{SaleItemID: first, Quantity: d(2)}, {SaleItemID: second, Quantity: d(1)}}, "defect", PaymentMethodPix, user, OpenBalance{})
	require.NoError(t, err)
	assert.Equal(t, SaleStatusReturned, s.Status)
	r.AssignNumber("DV-20260310-0001", s)
	ev := r.GetDomainEvents()[0].(*SaleReturnedEvent)
	assert.True(t, ev.FullyReturned)

	_, err = s.RegisterReturn([]ReturnLine{{SaleItemID: second, Quantity: d(1)}}, "defect", PaymentMethodPix, user, OpenBalance{})
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
}

func TestSale_RegisterReturn_SpreadsSaleDiscount(t *testing.T) {
	user := uuid.New()

	t.Run("full return refunds what was paid", func(t *testing.T) {
		s, err := NewSale(tenantID, uuid.New(), uuid.New(), nil, []ItemInput{item(1, 100)}, d(50),
			[]PaymentInput{{Method: PaymentMethodCash, Amount: d(50)}}, "")
		require.NoError(t, err)

		r, err := s.RegisterReturn([]ReturnLine{{SaleItemID: s.Items[0].ID, Quantity: d(1)}}, "defect", PaymentMethodCash, user, OpenBalance{})
		require.NoError(t, err)
		assert.True(t, r.CreditAmount.Equal(d(50)), "credit: %s", r.CreditAmount)
		assert.True(t, r.RefundAmount.Equal(d(50)), "refund: %s", r.RefundAmount)
		assert.True(t, r.Items[0].Amount.Equal(d(50)))
		assert.True(t, s.RefundedAmount.Equal(s.PaidAmount))
	})

	t.Run("returns in steps never refund more than the total", func(t *testing.T) {
		s, err := NewSale(tenantID, uuid.New(), uuid.New(), nil, []ItemInput{item(3, 50)}, d(10),
			[]PaymentInput{{Method: PaymentMethodPix, Amount: d(140)}}, "")
		require.NoError(t, err)
		id := s.Items[0].ID

		refunded := decimal.Zero
		for i := 0; i < 3; i++ {
			r, err := s.RegisterReturn([]ReturnLine{{SaleItemID: id, Quantity: d(1)}}, "defect", PaymentMethodPix, user, OpenBalance{})
			require.NoError(t, err)
			refunded = refunded.Add(r.RefundAmount)
		}
		assert.True(t, refunded.LessThanOrEqual(d(140)), "refunded %s", refunded)
		assert.True(t, refunded.GreaterThanOrEqual(decimal.RequireFromString("139.99")), "refunded %s", refunded)
		assert.Equal(t, SaleStatusReturned, s.Status)
	})
}

func TestSale_RegisterReturn_SettlesOpenBalanceFirst(t *testing.T) {
	user := uuid.New()
	customerID := uuid.New()

	t.Run("unpaid sale refunds nothing", func(t *testing.T) {
		s, err := NewSale(tenantID, uuid.New(), uuid.New(), &customerID, []ItemInput{item(1, 100)}, decimal.Zero, nil, "")
		require.NoError(t, err)

		r, err := s.RegisterReturn([]ReturnLine{{SaleItemID: s.Items[0].ID, Quantity: d(1)}}, "desistência", PaymentMethodCash, user,
			OpenBalance{Outstanding: d(100)})
		require.NoError(t, err)
		assert.True(t, r.BalanceReduction.Equal(d(100)))
		assert.True(t, r.RefundAmount.IsZero())
	})

	t.Run("partially paid sale", func(t *testing.T) {
		s, err := NewSale(tenantID, uuid.New(), uuid.New(), &customerID, []ItemInput{item(2, 50)}, decimal.Zero,
			[]PaymentInput{{Method: PaymentMethodCash, Amount: d(40)}}, "")
		require.NoError(t, err)
		id := s.Items[0].ID

		r, err := s.RegisterReturn([]ReturnLine{{SaleItemID: id, Quantity: d(1)}}, "defect", PaymentMethodCash, user,
			OpenBalance{Outstanding: d(60)})
		require.NoError(t, err)
		assert.True(t, r.BalanceReduction.Equal(d(50)))
		assert.True(t, r.RefundAmount.IsZero())

		r, err = s.RegisterReturn([]ReturnLine{{SaleItemID: id, Quantity: d(1)}}, "defect", PaymentMethodCash, user,
			OpenBalance{Outstanding: d(10)})
		require.NoError(t, err)
		assert.True(t, r.BalanceReduction.Equal(d(10)))
		assert.True(t, r.RefundAmount.Equal(d(40)), "refund: %s", r.RefundAmount)
		assert.True(t, s.RefundedAmount.Equal(d(40)))
	})

	t.Run("payments collected on the receivable can be refunded", func(t *testing.T) {
		s, err := NewSale(tenantID, uuid.New(), uuid.New(), &customerID, []ItemInput{item(1, 100)}, decimal.Zero, nil, "")
		require.NoError(t, err)

		r, err := s.RegisterReturn([]ReturnLine{{SaleItemID: s.Items[0].ID, Quantity: d(1)}}, "defect", PaymentMethodPix, user,
			OpenBalance{Outstanding: d(30), Collected: d(70)})
		require.NoError(t, err)
		assert.True(t, r.BalanceReduction.Equal(d(30)))
		assert.True(t, r.RefundAmount.Equal(d(70)))
	})
}
