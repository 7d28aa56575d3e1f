package models

import (
	"database/sql"
	"time"
)

// TransactionStatus mirrors domain.TransactionStatus for DB storage.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
)

// Transaction represents a weighing transaction row.
// Second weigh columns are NULL until the transaction completes.
type Transaction struct {
	TransactionID    string            `db:"transaction_id"`
	PlateNumber      string            `db:"plate_number"`
	GoodsType        string            `db:"goods_type"`
	DriverName       string            `db:"driver_name"`
	Vendor           string            `db:"vendor"`
	Customer         string            `db:"customer"`
	Quantity         string            `db:"quantity"`
	GoodsOrigin      string            `db:"goods_origin"`
	GoodsDestination string            `db:"goods_destination"`
	Remark           string            `db:"remark"`
	FirstWeighKg     float64           `db:"first_weigh_kg"`
	SecondWeighKg    sql.NullFloat64   `db:"second_weigh_kg"`
	NetWeighKg       sql.NullFloat64   `db:"net_weigh_kg"`
	FirstWeighAt     time.Time         `db:"first_weigh_timestamp"`
	SecondWeighAt    sql.NullTime      `db:"second_weigh_timestamp"`
	Status           TransactionStatus `db:"status"`
}
