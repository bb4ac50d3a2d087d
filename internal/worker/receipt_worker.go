package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SoyuzCL/pos-panchita/internal/infra"
	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReceiptJobPayload struct {
	SaleID string `json:"sale_id"`
	Email  string `json:"email,omitempty"`
}

type ReceiptWorkerConfig struct {
	StoreName      string
	StoragePath    string
	DefaultEmail   string
	PrinterEnabled bool
}

// ReceiptWorker renders a committed sale to text and PDF and hands the PDF
// to the e-mail queue when there is a recipient.
type ReceiptWorker struct {
	sales      repository.SaleRepository
	dispatcher *Dispatcher
	cfg        ReceiptWorkerConfig
}

func NewReceiptWorker(sales repository.SaleRepository, dispatcher *Dispatcher, cfg ReceiptWorkerConfig) *ReceiptWorker {
	return &ReceiptWorker{sales: sales, dispatcher: dispatcher, cfg: cfg}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return nil
	}

	sale, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("load sale %s: %w", saleID, err)
	}
	r := BuildReceipt(sale, w.cfg.StoreName)

	if w.cfg.PrinterEnabled {
		log.Info().Str("sale_id", payload.SaleID).Str("receipt", infra.ReceiptText(r)).Msg("receipt_worker: printing")
	}

	pdfPath, err := infra.GenerateReceiptPDF(r, w.cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("render receipt pdf: %w", err)
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	to := payload.Email
	if to == "" {
		to = w.cfg.DefaultEmail
	}
	if to == "" || w.dispatcher == nil {
		return nil
	}
	emailJob := EmailJobPayload{
		ToEmail: to,
		Subject: fmt.Sprintf("Comprobante de compra %s, venta %s", w.cfg.StoreName, r.ShortID()),
		Body:    infra.ReceiptText(r),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", to).Msg("receipt_worker: failed to enqueue email")
	}
	return nil
}

// BuildReceipt maps a stored sale (with items, products and employee loaded)
// onto the printable receipt.
func BuildReceipt(sale *model.Sale, storeName string) infra.Receipt {
	r := infra.Receipt{
		StoreName:     storeName,
		SaleID:        sale.ID.String(),
		Date:          sale.SaleDate,
		PaymentMethod: sale.PaymentMethod,
		Total:         sale.TotalAmount,
		Net:           sale.NetAmount,
	}
	if sale.Employee != nil {
		r.Cashier = sale.Employee.FullName()
	}
	for _, it := range sale.Items {
		name := it.ProductID.String()[:8]
		if it.Product != nil {
			name = it.Product.Name
		}
		r.Lines = append(r.Lines, infra.ReceiptLine{Name: name, Quantity: it.Quantity, UnitPrice: it.PriceAtSale})
	}
	return r
}
