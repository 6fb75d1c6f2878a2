package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankRequest struct {
	ShipID string          `json:"shipId"`
	Year   int             `json:"year"`
	Amount decimal.Decimal `json:"amount"`
}

type ApplyRequest struct {
	ShipID string          `json:"shipId"`
	Amount decimal.Decimal `json:"amount"`
}

type BankEntryResponse struct {
	ID            int64     `json:"id"`
	ShipID        string    `json:"shipId"`
	Year          int       `json:"year"`
	AmountGco2eq  float64   `json:"amountGco2eq"`
	AppliedAmount float64   `json:"appliedAmount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type BankResponse struct {
	Message string            `json:"message"`
	Entry   BankEntryResponse `json:"entry"`
}

type ApplyResponse struct {
	Message  string  `json:"message"`
	CBBefore float64 `json:"cbBefore"`
	Applied  float64 `json:"applied"`
	CBAfter  float64 `json:"cbAfter"`
}

type AvailableResponse struct {
	ShipID         string  `json:"shipId"`
	TotalAvailable float64 `json:"totalAvailable"`
}
