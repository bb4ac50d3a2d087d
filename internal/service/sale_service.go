package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/audit"
	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/infra"
	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	ProcessSale(ctx context.Context, actor Actor, req dto.ProcessSaleRequest) (*dto.ProcessSaleResponse, error)
	ActivityFeed(ctx context.Context, filter dto.ActivityFilter) ([]dto.ActivityItem, error)
}

// SaleOptions selects the price policy.
type SaleOptions struct {
	// TrustClientTotals stores the submitted unit prices and total as-is
	// instead of pricing every line from the product ledger.
	TrustClientTotals bool
}

type saleService struct {
	repo     repository.SaleRepository
	products repository.ProductRepository
	logs     repository.ActionLogRepository
	sessions CashSessionService
	gate     AdminGate
	receipts ReceiptService
	audit    audit.Recorder
	opts     SaleOptions
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	logs repository.ActionLogRepository,
	sessions CashSessionService,
	gate AdminGate,
	receipts ReceiptService,
	rec audit.Recorder,
	opts SaleOptions,
) SaleService {
	return &saleService{
		repo:     repo,
		products: products,
		logs:     logs,
		sessions: sessions,
		gate:     gate,
		receipts: receipts,
		audit:    rec,
		opts:     opts,
	}
}

type saleLine struct {
	productID uuid.UUID
	quantity  int
	price     decimal.Decimal
}

// ── ProcessSale ───────────────────────────────────────────────────────────────
// One transaction:
//   1. special sales: admin step-up, the admin becomes the attributed employee
//   2. price the lines (ledger prices unless client totals are trusted)
//   3. cash sales: credit the active session
//   4. insert the sale, then per line: conditional stock decrement + item row
// Audit entry and receipt job only after commit.

func (s *saleService) ProcessSale(ctx context.Context, actor Actor, req dto.ProcessSaleRequest) (*dto.ProcessSaleResponse, error) {
	lines, err := parseSaleLines(req.Items)
	if err != nil {
		return nil, err
	}
	switch req.PaymentMethod {
	case model.PaymentCash, model.PaymentCard, model.PaymentSpecial:
	default:
		return nil, apierror.E(apierror.InvalidInput, "Método de pago no válido.")
	}
	if s.opts.TrustClientTotals && req.TotalAmount.IsNegative() {
		return nil, apierror.E(apierror.InvalidInput, "El total de la venta no puede ser negativo.")
	}

	sale := model.Sale{
		ID:            uuid.New(),
		EmployeeID:    actor.ID,
		PaymentMethod: req.PaymentMethod,
		SaleDate:      time.Now().UTC(),
	}
	var approver *Approver

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.PaymentMethod == model.PaymentSpecial {
			if req.AdminRUT == "" || req.AdminPassword == "" {
				return apierror.E(apierror.Unauthorized, "Se requieren credenciales de administrador para una venta especial.")
			}
			var err error
			if approver, err = s.gate.AuthorizeTx(tx, req.AdminRUT, req.AdminPassword); err != nil {
				return err
			}
			sale.EmployeeID = approver.ID
		}

		total, err := s.priceLines(tx, lines, req.TotalAmount)
		if err != nil {
			return err
		}
		sale.TotalAmount = total
		sale.NetAmount = NetAmount(total)

		if err := s.sessions.ApplySaleCreditIfCashTx(tx, sale.PaymentMethod, total, sale.ID, actor.ID); err != nil {
			return err
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}
		for _, l := range lines {
			ok, err := s.products.DecrementStockTx(tx, l.productID, l.quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apierror.E(apierror.InsufficientStock,
					fmt.Sprintf("Stock insuficiente para el producto ID %s.", l.productID))
			}
			if err := s.repo.CreateItemTx(tx, &model.SaleItem{
				SaleID:      sale.ID,
				ProductID:   l.productID,
				Quantity:    l.quantity,
				PriceAtSale: l.price,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Venta procesada por %s con método '%s'.", infra.FormatCLP(sale.TotalAmount), sale.PaymentMethod)
	if approver != nil {
		details += fmt.Sprintf(" Autorizada por: %s. Registrada por (cajero): %s.", approver.Name, actor.Name)
	}
	record(ctx, s.audit, actor, model.ActionSaleProcessed, details)

	if s.receipts != nil {
		s.receipts.EnqueueDetached(ctx, sale.ID)
	}

	return &dto.ProcessSaleResponse{
		Message:     "Venta procesada",
		TotalAmount: sale.TotalAmount,
		SaleID:      sale.ID.String(),
	}, nil
}

func parseSaleLines(items []dto.SaleItemRequest) ([]saleLine, error) {
	if len(items) == 0 {
		return nil, apierror.E(apierror.InvalidInput, "La venta debe tener al menos un producto.")
	}
	lines := make([]saleLine, 0, len(items))
	for _, it := range items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, apierror.E(apierror.InvalidInput, "product_id inválido: "+it.ProductID)
		}
		if it.Quantity <= 0 {
			return nil, apierror.E(apierror.InvalidInput, "La cantidad debe ser mayor a cero.")
		}
		lines = append(lines, saleLine{productID: pid, quantity: it.Quantity, price: it.PriceAtSale})
	}
	return lines, nil
}

// priceLines fills each line's unit price and returns the sale total. With
// ledger pricing the submitted total must match the computed one.
func (s *saleService) priceLines(tx *gorm.DB, lines []saleLine, submitted decimal.Decimal) (decimal.Decimal, error) {
	if s.opts.TrustClientTotals {
		for _, l := range lines {
			if l.price.IsNegative() {
				return decimal.Zero, apierror.E(apierror.InvalidInput, "El precio de un producto no puede ser negativo.")
			}
		}
		return submitted, nil
	}

	total := decimal.Zero
	for i := range lines {
		p, err := s.products.FindByIDTx(tx, lines[i].productID)
		if repository.IsNotFound(err) {
			return decimal.Zero, apierror.E(apierror.InvalidInput,
				fmt.Sprintf("Producto %s no encontrado.", lines[i].productID))
		}
		if err != nil {
			return decimal.Zero, err
		}
		lines[i].price = p.SellingPrice
		total = total.Add(p.SellingPrice.Mul(decimal.NewFromInt(int64(lines[i].quantity))))
	}
	if !total.Equal(submitted) {
		return decimal.Zero, apierror.E(apierror.InvalidInput,
			fmt.Sprintf("El total enviado no coincide con el total calculado (%s).", infra.FormatCLP(total)))
	}
	return total, nil
}

// ── ActivityFeed ──────────────────────────────────────────────────────────────
// Sales and audit entries merged newest first.

func (s *saleService) ActivityFeed(ctx context.Context, filter dto.ActivityFilter) ([]dto.ActivityItem, error) {
	from, to, err := dayRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	feed := make([]dto.ActivityItem, 0, len(sales)+len(logs))
	for i := range sales {
		feed = append(feed, saleToActivity(&sales[i]))
	}
	for _, l := range logs {
		feed = append(feed, dto.ActivityItem{
			Type:         "LOG",
			ID:           l.ID.String(),
			CreatedAt:    l.CreatedAt,
			EmployeeName: l.EmployeeName,
			ActionType:   l.ActionType,
			Details:      l.Details,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].CreatedAt.After(feed[j].CreatedAt) })
	return feed, nil
}

func saleToActivity(sale *model.Sale) dto.ActivityItem {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:   it.ProductID.String(),
			ProductName: name,
			Quantity:    it.Quantity,
			PriceAtSale: it.PriceAtSale,
		})
	}
	employee := ""
	if sale.Employee != nil {
		employee = sale.Employee.FullName()
	}
	total, net := sale.TotalAmount, sale.NetAmount
	return dto.ActivityItem{
		Type:          "SALE",
		ID:            sale.ID.String(),
		CreatedAt:     sale.SaleDate,
		EmployeeName:  employee,
		TotalAmount:   &total,
		NetAmount:     &net,
		PaymentMethod: sale.PaymentMethod,
		Items:         items,
	}
}

// dayRange turns YYYY-MM-DD bounds into an inclusive UTC interval; empty
// bounds stay open.
func dayRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return nil, nil, apierror.E(apierror.InvalidInput, "startDate inválida.")
		}
		from = &t
	}
	if end != "" {
		t, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return nil, nil, apierror.E(apierror.InvalidInput, "endDate inválida.")
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	return from, to, nil
}
