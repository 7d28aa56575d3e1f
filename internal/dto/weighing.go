package dto

import (
	"time"

	"github.com/rtmsys/weighbridge_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WeighRequest carries the operator form fields for a first or second weigh.
// The captured weight and stability flag are filled in by the handler from
// the scale monitor, not by the client.
type WeighRequest struct {
	PlateNumber      string  `json:"plateNumber" binding:"required"`
	GoodsType        string  `json:"goodsType"`
	DriverName       string  `json:"driverName"`
	Vendor           string  `json:"vendor"`
	Customer         string  `json:"customer"`
	Quantity         string  `json:"quantity"`
	GoodsOrigin      string  `json:"goodsOrigin"`
	GoodsDestination string  `json:"goodsDestination"`
	Remark           string  `json:"remark"`
	DeductionKg      float64 `json:"deductionKg"`

	// Set server-side from the monitor snapshot.
	WeightKg float64 `json:"-"`
	Stable   bool    `json:"-"`
}

// WeighResult is the outcome of an open-or-close decision, for display.
type WeighResult struct {
	Opened      bool                `json:"opened"`
	GrossKg     float64             `json:"grossKg"`
	TareKg      float64             `json:"tareKg"`
	NetKg       float64             `json:"netKg"`
	FinalNetKg  float64             `json:"finalNetKg"`
	Transaction TransactionResponse `json:"transaction"`
}

// TransactionResponse defines the data returned for a weighing transaction.
type TransactionResponse struct {
	TransactionID    string                   `json:"transactionID"`
	PlateNumber      string                   `json:"plateNumber"`
	GoodsType        string                   `json:"goodsType"`
	DriverName       string                   `json:"driverName"`
	Vendor           string                   `json:"vendor"`
	Customer         string                   `json:"customer"`
	Quantity         string                   `json:"quantity"`
	GoodsOrigin      string                   `json:"goodsOrigin"`
	GoodsDestination string                   `json:"goodsDestination"`
	Remark           string                   `json:"remark"`
	FirstWeighKg     float64                  `json:"firstWeighKg"`
	SecondWeighKg    *float64                 `json:"secondWeighKg"`
	NetWeighKg       *float64                 `json:"netWeighKg"`
	GrossKg          float64                  `json:"grossKg"`
	TareKg           float64                  `json:"tareKg"`
	FirstWeighAt     time.Time                `json:"firstWeighAt"`
	SecondWeighAt    *time.Time               `json:"secondWeighAt"`
	Status           domain.TransactionStatus `json:"status"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    t.TransactionID,
		PlateNumber:      t.PlateNumber,
		GoodsType:        t.GoodsType,
		DriverName:       t.DriverName,
		Vendor:           t.Vendor,
		Customer:         t.Customer,
		Quantity:         t.Quantity,
		GoodsOrigin:      t.GoodsOrigin,
		GoodsDestination: t.GoodsDestination,
		Remark:           t.Remark,
		FirstWeighKg:     t.FirstWeighKg,
		SecondWeighKg:    t.SecondWeighKg,
		NetWeighKg:       t.NetWeighKg,
		GrossKg:          t.GrossKg(),
		TareKg:           t.TareKg(),
		FirstWeighAt:     t.FirstWeighAt,
		SecondWeighAt:    t.SecondWeighAt,
		Status:           t.Status,
	}
}

// ListWeighingsParams defines query parameters for the report listing.
type ListWeighingsParams struct {
	From      string `form:"from"`
	To        string `form:"to"`
	GoodsType string `form:"goodsType"`
}

// ReportSummary aggregates the listed transactions. TotalNetKg is accumulated
// with decimals so long reports don't drift.
type ReportSummary struct {
	Count      int             `json:"count"`
	Completed  int             `json:"completed"`
	Pending    int             `json:"pending"`
	TotalNetKg decimal.Decimal `json:"totalNetKg"`
}

// ListWeighingsResponse wraps the report listing.
type ListWeighingsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Summary      ReportSummary         `json:"summary"`
}

// ToListWeighingsResponse converts transactions to the report response,
// computing the summary block.
func ToListWeighingsResponse(txns []domain.Transaction) ListWeighingsResponse {
	res := ListWeighingsResponse{
		Transactions: make([]TransactionResponse, len(txns)),
	}
	total := decimal.Zero
	for i := range txns {
		res.Transactions[i] = ToTransactionResponse(&txns[i])
		switch txns[i].Status {
		case domain.StatusCompleted:
			res.Summary.Completed++
		case domain.StatusPending:
			res.Summary.Pending++
		}
		if txns[i].NetWeighKg != nil {
			total = total.Add(decimal.NewFromFloat(*txns[i].NetWeighKg))
		}
	}
	res.Summary.Count = len(txns)
	res.Summary.TotalNetKg = total
	return res
}
