package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleReq(productID string, qty int, total, method string) dto.ProcessSaleRequest {
	return dto.ProcessSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: productID, Quantity: qty}},
		TotalAmount:   dec(total),
		PaymentMethod: method,
	}
}

func TestProcessSale_CashSale(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Pan amasado", 5, 1000)
	f.open(t, "55000")

	resp, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 3, "3000", model.PaymentCash))
	require.NoError(t, err)
	assert.Equal(t, "Venta procesada", resp.Message)
	assert.True(t, resp.TotalAmount.Equal(dec("3000")))

	assert.Equal(t, 2, reloadProduct(t, f.db, p.ID).Stock)
	assert.True(t, reloadProduct(t, f.db, p.ID).IsActive)
	assert.True(t, activeSession(t, f.db).CurrentBalance.Equal(dec("58000")))

	var sale model.Sale
	require.NoError(t, f.db.Preload("Items").Take(&sale).Error)
	assert.Equal(t, resp.SaleID, sale.ID.String())
	assert.True(t, sale.NetAmount.Equal(dec("2521.01")), sale.NetAmount.String())
	assert.Equal(t, f.cashier.ID, sale.EmployeeID)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 3, sale.Items[0].Quantity)
	assert.True(t, sale.Items[0].PriceAtSale.Equal(dec("1000")))

	assert.Equal(t, model.ActionSaleProcessed, f.rec.last().Action)
	assert.Contains(t, f.rec.last().Details, "con método 'efectivo'")
}

func TestProcessSale_InsufficientStockLeavesNoTrace(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Pan amasado", 2, 1000)
	f.open(t, "58000")

	_, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 10, "10000", model.PaymentCash))
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.InsufficientStock))
	assert.Contains(t, apierror.MessageOf(err), p.ID.String())

	assert.Equal(t, 2, reloadProduct(t, f.db, p.ID).Stock)
	assert.True(t, activeSession(t, f.db).CurrentBalance.Equal(dec("58000")))
	assert.Zero(t, countRows(t, f.db, &model.Sale{}))
	assert.Zero(t, countRows(t, f.db, &model.SaleItem{}))
	assert.Zero(t, countRows(t, f.db, &model.CashMovement{}))
}

func TestProcessSale_MultiItemFailureRollsBackEverything(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p1 := seedProduct(t, f.db, "Marraqueta", 5, 1000)
	p2 := seedProduct(t, f.db, "Kuchen", 1, 2000)
	f.open(t, "10000")

	req := dto.ProcessSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p1.ID.String(), Quantity: 2},
			{ProductID: p2.ID.String(), Quantity: 3},
		},
		TotalAmount:   dec("8000"),
		PaymentMethod: model.PaymentCash,
	}
	_, err := f.sales.ProcessSale(context.Background(), f.actor, req)
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.InsufficientStock))

	assert.Equal(t, 5, reloadProduct(t, f.db, p1.ID).Stock)
	assert.Equal(t, 1, reloadProduct(t, f.db, p2.ID).Stock)
	assert.True(t, activeSession(t, f.db).CurrentBalance.Equal(dec("10000")))
	assert.Zero(t, countRows(t, f.db, &model.Sale{}))
	assert.Zero(t, countRows(t, f.db, &model.SaleItem{}))
	assert.Zero(t, countRows(t, f.db, &model.CashMovement{}))
	assert.Empty(t, f.rec.actions()[1:], "only the open is audited")
}

func TestProcessSale_SellingOutDeactivates(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Torta", 2, 5000)

	_, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 2, "10000", model.PaymentCard))
	require.NoError(t, err)

	got := reloadProduct(t, f.db, p.ID)
	assert.Equal(t, 0, got.Stock)
	assert.False(t, got.IsActive)
}

func TestProcessSale_NeverReactivates(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Berlín", 5, 800)
	require.NoError(t, f.db.Model(p).Update("is_active", false).Error)

	_, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 1, "800", model.PaymentCard))
	require.NoError(t, err)

	got := reloadProduct(t, f.db, p.ID)
	assert.Equal(t, 4, got.Stock)
	assert.False(t, got.IsActive)
}

func TestProcessSale_CashWithoutSession(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Hallulla", 5, 500)

	_, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 1, "500", model.PaymentCash))
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.NoActiveSession))
	assert.Equal(t, 5, reloadProduct(t, f.db, p.ID).Stock)
	assert.Zero(t, countRows(t, f.db, &model.Sale{}))
}

func TestProcessSale_CardDoesNotTouchSession(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Hallulla", 5, 500)

	_, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 1, "500", model.PaymentCard))
	require.NoError(t, err, "card sales need no open register")

	f.open(t, "1000")
	_, err = f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 2, "1000", model.PaymentCard))
	require.NoError(t, err)
	assert.True(t, activeSession(t, f.db).CurrentBalance.Equal(dec("1000")))
	assert.Zero(t, countRows(t, f.db, &model.CashMovement{}))
}

// ── Special sales ─────────────────────────────────────────────────────────────

func TestProcessSale_SpecialSaleAttributedToAdmin(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Pie de limón", 3, 6000)

	req := saleReq(p.ID.String(), 1, "6000", model.PaymentSpecial)
	req.AdminRUT, req.AdminPassword = f.admin.RUT, adminPassword
	_, err := f.sales.ProcessSale(context.Background(), f.actor, req)
	require.NoError(t, err)

	var sale model.Sale
	require.NoError(t, f.db.Take(&sale).Error)
	assert.Equal(t, f.admin.ID, sale.EmployeeID)
	assert.Equal(t, model.PaymentSpecial, sale.PaymentMethod)

	last := f.rec.last()
	assert.Equal(t, f.cashier.ID, last.ActorID)
	assert.Contains(t, last.Details, "Autorizada por: "+f.admin.FullName())
	assert.Contains(t, last.Details, "Registrada por (cajero): "+f.cashier.FullName())
}

func TestProcessSale_SpecialSaleRejected(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Pie de limón", 3, 6000)

	cases := map[string][2]string{
		"wrong password": {f.admin.RUT, "incorrecta"},
		"cashier rut":    {f.cashier.RUT, "clave-cajero"},
		"missing":        {"", ""},
	}
	for name, cred := range cases {
		t.Run(name, func(t *testing.T) {
			req := saleReq(p.ID.String(), 1, "6000", model.PaymentSpecial)
			req.AdminRUT, req.AdminPassword = cred[0], cred[1]
			_, err := f.sales.ProcessSale(context.Background(), f.actor, req)
			require.Error(t, err)
			assert.True(t, apierror.Is(err, apierror.Unauthorized))
		})
	}
	assert.Equal(t, 3, reloadProduct(t, f.db, p.ID).Stock)
	assert.Zero(t, countRows(t, f.db, &model.Sale{}))
}

// ── Price policy ──────────────────────────────────────────────────────────────

func TestProcessSale_TotalMismatchRejected(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Empanada", 10, 1500)
	f.open(t, "0")

	_, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 2, "100", model.PaymentCash))
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.InvalidInput))
	assert.Equal(t, 10, reloadProduct(t, f.db, p.ID).Stock)
	assert.True(t, activeSession(t, f.db).CurrentBalance.IsZero())
	assert.Zero(t, countRows(t, f.db, &model.Sale{}))
}

func TestProcessSale_LedgerPriceOverridesClientPrice(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Empanada", 10, 1500)

	req := saleReq(p.ID.String(), 2, "3000", model.PaymentCard)
	req.Items[0].PriceAtSale = dec("1")
	_, err := f.sales.ProcessSale(context.Background(), f.actor, req)
	require.NoError(t, err)

	var item model.SaleItem
	require.NoError(t, f.db.Take(&item).Error)
	assert.True(t, item.PriceAtSale.Equal(dec("1500")))
}

func TestProcessSale_UnknownProduct(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	_, err := f.sales.ProcessSale(context.Background(), f.actor,
		saleReq("7f1b1c5e-3f5e-4a61-9d1b-2b8c0c3c9a10", 1, "100", model.PaymentCard))
	assert.True(t, apierror.Is(err, apierror.InvalidInput))
}

func TestProcessSale_TrustedClientTotals(t *testing.T) {
	f := newFixture(t, SaleOptions{TrustClientTotals: true})
	p := seedProduct(t, f.db, "Empanada", 10, 1500)
	f.open(t, "0")

	req := saleReq(p.ID.String(), 2, "2500", model.PaymentCash)
	req.Items[0].PriceAtSale = dec("1250")
	resp, err := f.sales.ProcessSale(context.Background(), f.actor, req)
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(dec("2500")))
	assert.True(t, activeSession(t, f.db).CurrentBalance.Equal(dec("2500")))

	var item model.SaleItem
	require.NoError(t, f.db.Take(&item).Error)
	assert.True(t, item.PriceAtSale.Equal(dec("1250")))
}

func TestProcessSale_TrustedModeStillChecksStock(t *testing.T) {
	f := newFixture(t, SaleOptions{TrustClientTotals: true})
	p := seedProduct(t, f.db, "Empanada", 1, 1500)

	_, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 2, "3000", model.PaymentCard))
	assert.True(t, apierror.Is(err, apierror.InsufficientStock))
}

func TestProcessSale_InvalidRequests(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Empanada", 10, 1500)

	for name, req := range map[string]dto.ProcessSaleRequest{
		"no items":       {PaymentMethod: model.PaymentCard},
		"bad product id": saleReq("nope", 1, "1500", model.PaymentCard),
		"zero quantity":  saleReq(p.ID.String(), 0, "0", model.PaymentCard),
		"bad method":     saleReq(p.ID.String(), 1, "1500", "cheque"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.sales.ProcessSale(context.Background(), f.actor, req)
			assert.True(t, apierror.Is(err, apierror.InvalidInput))
		})
	}
}

// ── Concurrency ───────────────────────────────────────────────────────────────

func TestProcessSale_ConcurrentDecrementsNeverOversell(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Sopaipilla", 5, 300)

	const n = 6
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 2, "600", model.PaymentCard))
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			} else if !apierror.Is(err, apierror.InsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, reloadProduct(t, f.db, p.ID).Stock)
	assert.Equal(t, int64(2), countRows(t, f.db, &model.Sale{}))
}

// ── Activity feed ─────────────────────────────────────────────────────────────

func TestActivityFeed_MergesSalesAndLogsNewestFirst(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	p := seedProduct(t, f.db, "Marraqueta", 10, 1000)

	older := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, f.db.Create(&model.ActionLog{
		EmployeeID:   f.cashier.ID,
		EmployeeName: f.cashier.FullName(),
		ActionType:   model.ActionCashboxOpen,
		Details:      "Inició caja con $10.000.",
		CreatedAt:    older,
	}).Error)
	_, err := f.sales.ProcessSale(context.Background(), f.actor, saleReq(p.ID.String(), 1, "1000", model.PaymentCard))
	require.NoError(t, err)

	feed, err := f.sales.ActivityFeed(context.Background(), dto.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "SALE", feed[0].Type)
	assert.Equal(t, f.cashier.FullName(), feed[0].EmployeeName)
	require.Len(t, feed[0].Items, 1)
	assert.Equal(t, "Marraqueta", feed[0].Items[0].ProductName)
	assert.Equal(t, "LOG", feed[1].Type)
	assert.Equal(t, model.ActionCashboxOpen, feed[1].ActionType)

	past := time.Now().UTC().AddDate(0, 0, -2).Format(time.DateOnly)
	feed, err = f.sales.ActivityFeed(context.Background(), dto.ActivityFilter{StartDate: past, EndDate: past})
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestActivityFeed_BadDate(t *testing.T) {
	f := newFixture(t, SaleOptions{})
	_, err := f.sales.ActivityFeed(context.Background(), dto.ActivityFilter{StartDate: "16/10/2026"})
	assert.True(t, apierror.Is(err, apierror.InvalidInput))
}
