package service

import (
	"context"
	"testing"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSupplier(t *testing.T, db *gorm.DB, name string) *model.Supplier {
	t.Helper()
	s := &model.Supplier{Name: name}
	require.NoError(t, db.Create(s).Error)
	return s
}

func TestPurchaseOrder_ReceiveInSteps(t *testing.T) {
	db := newTestDB(t)
	rec := &memRecorder{}
	svc := NewPurchaseOrderService(repository.NewPurchaseOrderRepository(db), repository.NewProductRepository(db), rec)
	ctx := context.Background()

	sup := seedSupplier(t, db, "Molino Collico")
	flour := seedProduct(t, db, "Harina 25kg", 0, 20000)
	yeast := seedProduct(t, db, "Levadura", 3, 2000)

	order, err := svc.Create(ctx, admin, dto.CreatePurchaseOrderRequest{
		SupplierID: sup.ID.String(),
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: flour.ID.String(), Quantity: 10, CostPrice: dec("9000")},
			{ProductID: yeast.ID.String(), Quantity: 5, CostPrice: dec("900")},
		},
		TotalCost: dec("94500"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.POStatusOrdered, order.Status)
	assert.Equal(t, "Molino Collico", order.SupplierName)
	require.Len(t, order.Items, 2)

	lineFor := func(resp *dto.PurchaseOrderResponse, productID uuid.UUID) dto.PurchaseOrderItemResponse {
		for _, it := range resp.Items {
			if it.ProductID == productID.String() {
				return it
			}
		}
		t.Fatalf("no line for product %s", productID)
		return dto.PurchaseOrderItemResponse{}
	}
	flourLine := lineFor(order, flour.ID)
	yeastLine := lineFor(order, yeast.ID)
	orderID := uuid.MustParse(order.ID)

	partial, err := svc.Receive(ctx, admin, orderID, dto.ReceivePurchaseOrderRequest{
		ItemsReceived: []dto.ReceivedItem{{ItemID: flourLine.ID, QuantityReceived: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.POStatusPartial, partial.Status)
	assert.Equal(t, 4, lineFor(partial, flour.ID).QuantityReceived)

	stocked := reloadProduct(t, db, flour.ID)
	assert.Equal(t, 4, stocked.Stock)
	assert.False(t, stocked.IsActive, "receiving stock never reactivates")

	done, err := svc.Receive(ctx, admin, orderID, dto.ReceivePurchaseOrderRequest{
		ItemsReceived: []dto.ReceivedItem{
			{ItemID: flourLine.ID, QuantityReceived: 6},
			{ItemID: yeastLine.ID, QuantityReceived: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.POStatusComplete, done.Status)
	assert.Equal(t, 10, reloadProduct(t, db, flour.ID).Stock)
	assert.Equal(t, 8, reloadProduct(t, db, yeast.ID).Stock)

	_, err = svc.Receive(ctx, admin, orderID, dto.ReceivePurchaseOrderRequest{
		ItemsReceived: []dto.ReceivedItem{{ItemID: yeastLine.ID, QuantityReceived: 1}},
	})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.InvalidInput))
	assert.Equal(t, 8, reloadProduct(t, db, yeast.ID).Stock)

	assert.Equal(t, []string{
		model.ActionPurchaseOrderCreate, model.ActionPurchaseOrderRecv, model.ActionPurchaseOrderRecv,
	}, rec.actions())
}

func TestPurchaseOrder_ReceiveRejectsForeignLine(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseOrderService(repository.NewPurchaseOrderRepository(db), repository.NewProductRepository(db), &memRecorder{})
	ctx := context.Background()
	sup := seedSupplier(t, db, "Lácteos del Sur")
	butter := seedProduct(t, db, "Mantequilla", 2, 3000)

	order, err := svc.Create(ctx, admin, dto.CreatePurchaseOrderRequest{
		SupplierID: sup.ID.String(),
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: butter.ID.String(), Quantity: 3, CostPrice: dec("1500")}},
		TotalCost:  dec("4500"),
	})
	require.NoError(t, err)

	_, err = svc.Receive(ctx, admin, uuid.MustParse(order.ID), dto.ReceivePurchaseOrderRequest{
		ItemsReceived: []dto.ReceivedItem{
			{ItemID: order.Items[0].ID, QuantityReceived: 3},
			{ItemID: uuid.NewString(), QuantityReceived: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.InvalidInput))
	assert.Equal(t, 2, reloadProduct(t, db, butter.ID).Stock, "the whole receipt rolls back")

	_, err = svc.Receive(ctx, admin, uuid.New(), dto.ReceivePurchaseOrderRequest{
		ItemsReceived: []dto.ReceivedItem{{ItemID: order.Items[0].ID, QuantityReceived: 1}},
	})
	assert.True(t, apierror.Is(err, apierror.NotFound))
}

func TestPurchaseOrder_CreateUnknownSupplier(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseOrderService(repository.NewPurchaseOrderRepository(db), repository.NewProductRepository(db), &memRecorder{})
	p := seedProduct(t, db, "Azúcar", 1, 1000)

	_, err := svc.Create(context.Background(), admin, dto.CreatePurchaseOrderRequest{
		SupplierID: uuid.NewString(),
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.InvalidInput))
	assert.Zero(t, countRows(t, db, &model.PurchaseOrder{}))
}

func TestCustomerOrder(t *testing.T) {
	db := newTestDB(t)
	rec := &memRecorder{}
	svc := NewCustomerOrderService(repository.NewCustomerOrderRepository(db), rec)
	ctx := context.Background()

	req := dto.CreateCustomerOrderRequest{
		CustomerName: "Javiera Muñoz",
		DeliveryDate: "2026-10-20",
		TotalAmount:  dec("25000"),
		DownPayment:  dec("10000"),
		Items:        []dto.CustomerOrderItemRequest{{Description: "Torta tres leches 20p", Quantity: 1, UnitPrice: dec("25000")}},
	}
	created, err := svc.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, model.COStatusPending, created.Status)
	assert.Equal(t, admin.ID.String(), created.EmployeeID)
	require.Len(t, created.Items, 1)

	over := req
	over.DownPayment = dec("30000")
	_, err = svc.Create(ctx, admin, over)
	assert.True(t, apierror.Is(err, apierror.InvalidInput))

	badDate := req
	badDate.DeliveryDate = "20/10/2026"
	_, err = svc.Create(ctx, admin, badDate)
	assert.True(t, apierror.Is(err, apierror.InvalidInput))

	id := uuid.MustParse(created.ID)
	require.NoError(t, svc.UpdateStatus(ctx, admin, id, model.COStatusPreparing))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.COStatusPreparing, list[0].Status)

	err = svc.UpdateStatus(ctx, admin, id, "perdido")
	assert.True(t, apierror.Is(err, apierror.InvalidInput))
	err = svc.UpdateStatus(ctx, admin, uuid.New(), model.COStatusDone)
	assert.True(t, apierror.Is(err, apierror.NotFound))

	assert.Equal(t, []string{model.ActionCustomerOrderCreate, model.ActionCustomerOrderUpdate}, rec.actions())
}
