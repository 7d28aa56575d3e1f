package domain

import (
	"math"
	"time"
)

// TransactionStatus defines the lifecycle state of a weighing transaction.
type TransactionStatus string

const (
	// StatusPending marks a transaction that has only its first weigh recorded.
	StatusPending TransactionStatus = "PENDING"
	// StatusCompleted marks a transaction whose second weigh has been captured.
	// The transition is irreversible.
	StatusCompleted TransactionStatus = "COMPLETED"
)

// Transaction represents one full vehicle weighing cycle.
// Second weigh fields are nil until the transaction completes.
type Transaction struct {
	TransactionID    string
	PlateNumber      string
	GoodsType        string
	DriverName       string
	Vendor           string
	Customer         string
	Quantity         string
	GoodsOrigin      string
	GoodsDestination string
	Remark           string
	FirstWeighKg     float64
	SecondWeighKg    *float64
	NetWeighKg       *float64
	FirstWeighAt     time.Time
	SecondWeighAt    *time.Time
	Status           TransactionStatus
}

// GrossKg returns the larger of the two weigh readings, or the first weigh
// while the transaction is still pending.
func (t Transaction) GrossKg() float64 {
	if t.SecondWeighKg == nil {
		return t.FirstWeighKg
	}
	return math.Max(t.FirstWeighKg, *t.SecondWeighKg)
}

// TareKg returns the smaller of the two weigh readings, or zero while the
// transaction is still pending.
func (t Transaction) TareKg() float64 {
	if t.SecondWeighKg == nil {
		return 0
	}
	return math.Min(t.FirstWeighKg, *t.SecondWeighKg)
}

// IsPending reports whether the transaction is still waiting for its second weigh.
func (t Transaction) IsPending() bool {
	return t.Status == StatusPending
}
