package service

import (
	"context"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/repository"
	"github.com/SoyuzCL/pos-panchita/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// receiptEnqueueTimeout bounds a detached enqueue after a sale committed.
const receiptEnqueueTimeout = 2 * time.Second

const (
	msgReceiptPrinted  = "Recibo enviado a la impresora."
	msgReceiptFallback = "Venta guardada, pero no se pudo conectar con la impresora para imprimir el recibo."
)

// ReceiptService hands committed sales to the receipt worker. Nothing here
// can fail a sale: enqueue errors are logged and reported as "not printed".
type ReceiptService interface {
	Print(ctx context.Context, saleID uuid.UUID, email string) (string, error)
	// Enqueue reports whether the job reached the queue.
	Enqueue(ctx context.Context, saleID uuid.UUID, email string) bool
	// EnqueueDetached queues the job in the background and returns at once.
	EnqueueDetached(ctx context.Context, saleID uuid.UUID)
}

type receiptService struct {
	sales          repository.SaleRepository
	dispatcher     *worker.Dispatcher
	printerEnabled bool
}

// NewReceiptService accepts a nil dispatcher when Redis is not configured.
func NewReceiptService(sales repository.SaleRepository, dispatcher *worker.Dispatcher, printerEnabled bool) ReceiptService {
	return &receiptService{sales: sales, dispatcher: dispatcher, printerEnabled: printerEnabled}
}

func (s *receiptService) Print(ctx context.Context, saleID uuid.UUID, email string) (string, error) {
	if _, err := s.sales.FindByID(ctx, saleID); err != nil {
		if repository.IsNotFound(err) {
			return "", apierror.E(apierror.NotFound, "Venta no encontrada.")
		}
		return "", err
	}
	if s.Enqueue(ctx, saleID, email) && s.printerEnabled {
		return msgReceiptPrinted, nil
	}
	return msgReceiptFallback, nil
}

func (s *receiptService) Enqueue(ctx context.Context, saleID uuid.UUID, email string) bool {
	if s.dispatcher == nil {
		return false
	}
	err := s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{SaleID: saleID.String(), Email: email})
	if err != nil {
		log.Warn().Err(err).Str("sale_id", saleID.String()).Msg("receipt: failed to enqueue job")
		return false
	}
	return true
}

func (s *receiptService) EnqueueDetached(ctx context.Context, saleID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, receiptEnqueueTimeout)
		defer cancel()
		s.Enqueue(ctx, saleID, "")
	}()
}
