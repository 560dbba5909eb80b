package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appinv "github.com/repairpos/backend/internal/application/inventory"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCustomer(t *testing.T, customerType crm.CustomerType) *crm.Customer {
	t.Helper()
	c, err := crm.NewCustomer(tenantID, "Maria Souza", customerType, "", crm.ContactInfo{Phone: "11 98888-7777"})
	require.NoError(t, err)
	return c
}

func TestAccountService_Receivable(t *testing.T) {
	ctx := context.Background()
	customer := newCustomer(t, crm.CustomerTypeIndividual)
	receivables := newMemoryReceivables()
	svc := NewAccountService(receivables, newMemoryPayables(), &memoryCustomers{rows: map[uuid.UUID]*crm.Customer{customer.ID: customer}}, nil)
	svc.now = func() time.Time { return fixedNow }

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.CreateReceivable(ctx, tenantID, CreateReceivableRequest{
			CustomerID: uuid.New(),
			Amount:     dec("100"),
			DueDate:    fixedNow.AddDate(0, 0, 30),
		})
		assert.Equal(t, "CUSTOMER_NOT_FOUND", shared.ErrorCode(err))
	})

	created, err := svc.CreateReceivable(ctx, tenantID, CreateReceivableRequest{
		CustomerID:  customer.ID,
		Amount:      dec("300"),
		DueDate:     fixedNow.AddDate(0, 0, -1),
		Description: "Screen replacement in installments",
	})
	require.NoError(t, err)
	assert.Equal(t, "manual", created.Source)
	assert.True(t, created.Overdue)
	assert.True(t, dec("300").Equal(created.OutstandingAmount))

	userID := uuid.New()
	partial, err := svc.RecordReceivablePayment(ctx, tenantID, userID, created.ID, RecordPaymentRequest{Amount: dec("100"), Method: "pix"})
	require.NoError(t, err)
	assert.Equal(t, "partial", partial.Status)
	assert.True(t, dec("200").Equal(partial.OutstandingAmount))
	require.Len(t, partial.Payments, 1)
	assert.Equal(t, userID, partial.Payments[0].PaidBy)

	_, err = svc.RecordReceivablePayment(ctx, tenantID, userID, created.ID, RecordPaymentRequest{Amount: dec("250"), Method: "cash"})
	assert.Equal(t, "OVERPAYMENT", shared.ErrorCode(err))

	paid, err := svc.RecordReceivablePayment(ctx, tenantID, userID, created.ID, RecordPaymentRequest{Amount: dec("200"), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.False(t, paid.Overdue)
	assert.NotNil(t, paid.PaidAt)

	_, err = svc.CancelReceivable(ctx, tenantID, created.ID)
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
}

func TestAccountService_Payable(t *testing.T) {
	ctx := context.Background()
	payables := newMemoryPayables()
	svc := NewAccountService(newMemoryReceivables(), payables, &memoryCustomers{}, nil)
	svc.now = func() time.Time { return fixedNow }

	_, err := svc.CreatePayable(ctx, tenantID, CreatePayableRequest{SupplierName: " ", Description: "Rent", Amount: dec("10"), DueDate: fixedNow})
	assert.Equal(t, "SUPPLIER_REQUIRED", shared.ErrorCode(err))

	created, err := svc.CreatePayable(ctx, tenantID, CreatePayableRequest{
		SupplierName: "Parts Distributor",
		Description:  "Screens batch",
		Category:     "parts",
		Amount:       dec("1200"),
		DueDate:      fixedNow.AddDate(0, 0, 15),
	})
	require.NoError(t, err)
	assert.False(t, created.Overdue)

	cancelled, err := svc.CancelPayable(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, 2, payables.rows[created.ID].Version)

	_, err = svc.RecordPayablePayment(ctx, tenantID, uuid.New(), created.ID, RecordPaymentRequest{Amount: dec("1"), Method: "cash"})
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
}

type commissionFixture struct {
	sellerID    uuid.UUID
	techID      uuid.UUID
	rules       *memoryCommissionRules
	commissions *memoryCommissions
	handler     *CommissionHandler
}

func newCommissionFixture(t *testing.T) *commissionFixture {
	t.Helper()
	role, err := identity.NewRole(tenantID, "senior_seller", "Senior seller")
	require.NoError(t, err)
	seller, err := identity.NewUser(tenantID, "joana", "secret123")
	require.NoError(t, err)
	seller.SetRoles([]uuid.UUID{role.ID})
	tech, err := identity.NewUser(tenantID, "carlos", "secret123")
	require.NoError(t, err)

	rule := func(name string, priority int, cond finance.CommissionCondition, value string, kind finance.CommissionType, rate string) finance.CommissionRule {
		r, err := finance.NewCommissionRule(tenantID, finance.CommissionRuleInput{
			Name: name, Priority: priority, ConditionType: cond, ConditionValue: value,
			CommissionType: kind, Rate: dec(rate), IsActive: true,
		})
		require.NoError(t, err)
		return *r
	}

	f := &commissionFixture{
		sellerID: seller.ID,
		techID:   tech.ID,
		rules: &memoryCommissionRules{rows: []finance.CommissionRule{
			rule("Default", 1, finance.CommissionConditionAlways, "", finance.CommissionTypePercentage, "2"),
			rule("Seniors", 10, finance.CommissionConditionRole, "senior_seller", finance.CommissionTypePercentage, "5"),
			rule("Repairs", 20, finance.CommissionConditionServiceOrder, "", finance.CommissionTypeFixed, "25"),
		}},
		commissions: newMemoryCommissions(),
	}
	f.handler = NewCommissionHandler(f.rules, f.commissions,
		&memoryUsers{rows: map[uuid.UUID]*identity.User{seller.ID: seller, tech.ID: tech}},
		&memoryRoles{rows: map[uuid.UUID]*identity.Role{role.ID: role}},
		nil)
	return f
}

func saleCompleted(saleID, sellerID uuid.UUID, total string) *sales.SaleCompletedEvent {
	return &sales.SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(sales.EventTypeSaleCompleted, "Sale", saleID, tenantID),
		SaleID:          saleID,
		SellerID:        sellerID,
		Total:           dec(total),
		Lines:           []sales.SaleLine{{ProductID: uuid.New(), Category: "cases", Quantity: dec("1"), Total: dec(total)}},
	}
}

func TestCommissionHandler_Sale(t *testing.T) {
	ctx := context.Background()
	f := newCommissionFixture(t)
	saleID := uuid.New()

	require.NoError(t, f.handler.Handle(ctx, saleCompleted(saleID, f.sellerID, "400")))
	rows, err := f.commissions.FindBySource(ctx, tenantID, finance.CommissionSourceSale, saleID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, dec("20").Equal(rows[0].Amount), "role rule outranks the default rule")
	assert.Equal(t, f.rules.rows[1].ID, rows[0].RuleID)

	// redelivery of the same event
	require.NoError(t, f.handler.Handle(ctx, saleCompleted(saleID, f.sellerID, "400")))
	assert.Len(t, f.commissions.rows, 1)

	partial := &sales.SaleReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(sales.EventTypeSaleReturned, "SaleReturn", uuid.New(), tenantID),
		SaleID:          saleID,
		FullyReturned:   false,
	}
	require.NoError(t, f.handler.Handle(ctx, partial))
	assert.Equal(t, finance.CommissionStatusPending, f.commissions.rows[rows[0].ID].Status)

	partial.FullyReturned = true
	require.NoError(t, f.handler.Handle(ctx, partial))
	assert.Equal(t, finance.CommissionStatusCancelled, f.commissions.rows[rows[0].ID].Status)
}

func TestCommissionHandler_SellerWithoutRole(t *testing.T) {
	ctx := context.Background()
	f := newCommissionFixture(t)
	saleID := uuid.New()

	require.NoError(t, f.handler.Handle(ctx, saleCompleted(saleID, f.techID, "150")))
	rows, err := f.commissions.FindBySource(ctx, tenantID, finance.CommissionSourceSale, saleID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, dec("3").Equal(rows[0].Amount))
}

func TestCommissionHandler_ServiceOrderDelivered(t *testing.T) {
	ctx := context.Background()
	f := newCommissionFixture(t)
	orderID := uuid.New()

	event := func(to repair.Status, tech *uuid.UUID) *repair.ServiceOrderStatusChangedEvent {
		return &repair.ServiceOrderStatusChangedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(repair.EventTypeServiceOrderStatusChanged, "ServiceOrder", orderID, tenantID),
			TechnicianID:    tech,
			ToStatus:        to,
			FinalCost:       dec("350"),
		}
	}
	require.NoError(t, f.handler.Handle(ctx, event(repair.StatusReady, &f.techID)))
	require.NoError(t, f.handler.Handle(ctx, event(repair.StatusDelivered, nil)))
	assert.Empty(t, f.commissions.rows)

	require.NoError(t, f.handler.Handle(ctx, event(repair.StatusDelivered, &f.techID)))
	rows, err := f.commissions.FindBySource(ctx, tenantID, finance.CommissionSourceServiceOrder, orderID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.techID, rows[0].UserID)
	assert.True(t, dec("25").Equal(rows[0].Amount))
	assert.True(t, dec("350").Equal(rows[0].BaseAmount))
}

func TestCommissionService_PayAndSummarize(t *testing.T) {
	ctx := context.Background()
	f := newCommissionFixture(t)
	svc := NewCommissionService(f.rules, f.commissions, nil)

	require.NoError(t, f.handler.Handle(ctx, saleCompleted(uuid.New(), f.sellerID, "400")))
	require.NoError(t, f.handler.Handle(ctx, saleCompleted(uuid.New(), f.sellerID, "100")))
	var first uuid.UUID
	for id, c := range f.commissions.rows {
		if c.Amount.Equal(dec("20")) {
			first = id
		}
	}
	paid, err := svc.MarkPaid(ctx, tenantID, first)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	_, err = svc.Cancel(ctx, tenantID, first)
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))

	today := time.Now()
	summaries, err := svc.Summary(ctx, tenantID, CommissionSummaryRequest{
		UserID: &f.sellerID,
		From:   today.AddDate(0, 0, -1),
		To:     today,
	})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(2), summaries[0].Count)
	assert.True(t, dec("20").Equal(summaries[0].Paid))
	assert.True(t, dec("5").Equal(summaries[0].Pending))

	_, err = svc.Summary(ctx, tenantID, CommissionSummaryRequest{From: today, To: today.AddDate(0, 0, -3)})
	assert.Equal(t, "INVALID_PERIOD", shared.ErrorCode(err))
}

func TestPricingService_Quote(t *testing.T) {
	ctx := context.Background()
	product, err := catalog.NewProduct(tenantID, "CASE-A54", "Capa A54", "un")
	require.NoError(t, err)
	product.Category = "cases"
	require.NoError(t, product.SetInitialPrices(dec("20"), dec("50")))
	company := newCustomer(t, crm.CustomerTypeCompany)

	rule := func(name string, priority int, cond finance.PricingCondition, value string, adj finance.PriceAdjustment, amount string) finance.PricingRule {
		r, err := finance.NewPricingRule(tenantID, finance.PricingRuleInput{
			Name: name, Priority: priority, ConditionType: cond, ConditionValue: value,
			AdjustmentType: adj, Value: dec(amount), IsActive: true,
		})
		require.NoError(t, err)
		return *r
	}
	rules := &memoryPricingRules{rows: []finance.PricingRule{
		rule("Bulk", 5, finance.PricingConditionMinQuantity, "10", finance.AdjustmentPercentageDiscount, "10"),
		rule("Companies", 8, finance.PricingConditionCustomerType, "company", finance.AdjustmentFixedDiscount, "15"),
	}}
	svc := NewPricingService(rules, &memoryPriceHistory{},
		&memoryProducts{rows: map[uuid.UUID]*catalog.Product{product.ID: product}},
		&memoryCustomers{rows: map[uuid.UUID]*crm.Customer{company.ID: company}},
		nil)
	svc.now = func() time.Time { return fixedNow }

	q, err := svc.Quote(ctx, tenantID, QuoteRequest{ProductID: product.ID})
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(q.UnitPrice))
	assert.Nil(t, q.RuleID)

	q, err = svc.Quote(ctx, tenantID, QuoteRequest{ProductID: product.ID, Quantity: dec("10")})
	require.NoError(t, err)
	assert.True(t, dec("45").Equal(q.UnitPrice))
	assert.True(t, dec("450").Equal(q.Total))
	assert.Equal(t, "Bulk", q.RuleName)

	q, err = svc.Quote(ctx, tenantID, QuoteRequest{ProductID: product.ID, Quantity: dec("10"), CustomerID: &company.ID})
	require.NoError(t, err)
	assert.True(t, dec("35").Equal(q.UnitPrice))
	assert.Equal(t, "Companies", q.RuleName)

	_, err = svc.Quote(ctx, tenantID, QuoteRequest{ProductID: uuid.New()})
	assert.Equal(t, "PRODUCT_NOT_FOUND", shared.ErrorCode(err))

	missing := uuid.New()
	_, err = svc.Quote(ctx, tenantID, QuoteRequest{ProductID: product.ID, CustomerID: &missing})
	assert.Equal(t, "CUSTOMER_NOT_FOUND", shared.ErrorCode(err))
}

func TestPriceHistoryHandler(t *testing.T) {
	ctx := context.Background()
	history := &memoryPriceHistory{}
	handler := NewPriceHistoryHandler(history, nil)
	product, err := catalog.NewProduct(tenantID, "CASE-A54", "Capa A54", "un")
	require.NoError(t, err)
	by := uuid.New()

	event := catalog.NewProductPriceChangedEvent(product, nil, dec("50"), dec("55"), by, "supplier increase")
	require.NoError(t, handler.Handle(ctx, event))

	svc := NewPricingService(&memoryPricingRules{}, history, &memoryProducts{}, &memoryCustomers{}, nil)
	page, err := svc.PriceHistory(ctx, tenantID, product.ID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, dec("55").Equal(page.Items[0].NewPrice))
	assert.Equal(t, by, page.Items[0].ChangedBy)
	assert.Equal(t, "supplier increase", page.Items[0].Reason)
}

func TestReimbursementService_Flow(t *testing.T) {
	ctx := context.Background()
	requester, err := identity.NewUser(tenantID, "carlos", "secret123")
	require.NoError(t, err)
	require.NoError(t, requester.UpdateProfile("Carlos Lima", "", "", nil))
	managerID := uuid.New()

	claims := newMemoryReimbursements()
	payables := newMemoryPayables()
	svc := NewReimbursementService(claims, &memoryUsers{rows: map[uuid.UUID]*identity.User{requester.ID: requester}},
		&appinv.NoOpTransactionScope{Payables: payables, Reimbursements: claims}, nil)
	svc.now = func() time.Time { return fixedNow }

	claim, err := svc.Create(ctx, tenantID, requester.ID, CreateReimbursementRequest{
		Description: "Uber to supplier",
		Category:    "transport",
		Amount:      dec("42.50"),
		ExpenseDate: fixedNow.AddDate(0, 0, -2),
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", claim.Status)

	_, err = svc.Pay(ctx, tenantID, managerID, claim.ID, PayReimbursementRequest{Method: "pix"})
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))

	_, err = svc.Approve(ctx, tenantID, requester.ID, claim.ID, ReviewReimbursementRequest{})
	assert.Equal(t, "SELF_REVIEW", shared.ErrorCode(err))

	approved, err := svc.Approve(ctx, tenantID, managerID, claim.ID, ReviewReimbursementRequest{Note: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, &managerID, approved.ReviewerID)

	paid, err := svc.Pay(ctx, tenantID, managerID, claim.ID, PayReimbursementRequest{Method: "pix"})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PayableID)

	payable := payables.rows[*paid.PayableID]
	assert.Equal(t, "Carlos Lima", payable.SupplierName)
	assert.Equal(t, "reimbursement", payable.Category)
	assert.Equal(t, "reimbursement", payable.SourceType)
	assert.Equal(t, finance.AccountStatusPaid, payable.Status)
	assert.True(t, dec("42.50").Equal(payable.PaidAmount))
}

func TestReimbursementService_RejectNeedsNote(t *testing.T) {
	ctx := context.Background()
	claims := newMemoryReimbursements()
	svc := NewReimbursementService(claims, &memoryUsers{}, &appinv.NoOpTransactionScope{}, nil)
	requesterID := uuid.New()

	claim, err := svc.Create(ctx, tenantID, requesterID, CreateReimbursementRequest{
		Description: "Lunch",
		Amount:      dec("30"),
		ExpenseDate: time.Now().AddDate(0, 0, -1),
	})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, tenantID, uuid.New(), claim.ID, ReviewReimbursementRequest{})
	assert.Equal(t, "REASON_REQUIRED", shared.ErrorCode(err))

	rejected, err := svc.Reject(ctx, tenantID, uuid.New(), claim.ID, ReviewReimbursementRequest{Note: "Not a business expense"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
}
