package service

import (
	"context"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/shopspring/decimal"
)

type ReportService interface {
	Summary(ctx context.Context) (*dto.SummaryResponse, error)
}

type reportService struct {
	repo repository.ReportRepository
	now  func() time.Time
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo, now: time.Now}
}

// Summary covers the current local calendar day.
func (s *reportService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	now := s.now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UTC()

	total, count, err := s.repo.SalesSince(ctx, since)
	if err != nil {
		return nil, err
	}
	byMethod, err := s.repo.TotalsByPaymentMethod(ctx, since)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProductSince(ctx, since)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountCustomerOrders(ctx, model.COStatusPending, model.COStatusPreparing)
	if err != nil {
		return nil, err
	}

	resp := &dto.SummaryResponse{
		TotalSalesToday:    total,
		NumberOfSalesToday: count,
		SalesByPaymentMethod: map[string]decimal.Decimal{
			model.PaymentCash:    decimal.Zero,
			model.PaymentCard:    decimal.Zero,
			model.PaymentSpecial: decimal.Zero,
		},
		TopSellingProduct:     dto.TopProduct{Name: "N/A"},
		PendingCustomerOrders: pending,
	}
	for _, pt := range byMethod {
		if _, known := resp.SalesByPaymentMethod[pt.PaymentMethod]; known {
			resp.SalesByPaymentMethod[pt.PaymentMethod] = pt.Total
		}
	}
	if top != nil {
		resp.TopSellingProduct = dto.TopProduct{Name: top.Name, TotalQuantity: top.TotalQuantity}
	}
	return resp, nil
}
