package dto

import "github.com/shopspring/decimal"

type TopProduct struct {
	Name          string `json:"name"`
	TotalQuantity int64  `json:"total_quantity"`
}

type SummaryResponse struct {
	TotalSalesToday       decimal.Decimal            `json:"total_sales_today"`
	NumberOfSalesToday    int64                      `json:"number_of_sales_today"`
	SalesByPaymentMethod  map[string]decimal.Decimal `json:"sales_by_payment_method"`
	TopSellingProduct     TopProduct                 `json:"top_selling_product_today"`
	PendingCustomerOrders int64                      `json:"pending_customer_orders"`
}
