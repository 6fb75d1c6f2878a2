package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PoolMemberRequest struct {
	ShipID   string           `json:"shipId"`
	CBBefore *decimal.Decimal `json:"cbBefore"`
}

type CreatePoolRequest struct {
	Year    int                 `json:"year"`
	Members []PoolMemberRequest `json:"members"`
}

type PoolMemberResponse struct {
	ID       int64   `json:"id"`
	PoolID   int64   `json:"poolId"`
	ShipID   string  `json:"shipId"`
	CBBefore float64 `json:"cbBefore"`
	CBAfter  float64 `json:"cbAfter"`
}

type PoolResponse struct {
	ID            int64                `json:"id"`
	Year          int                  `json:"year"`
	TotalCBBefore float64              `json:"totalCbBefore"`
	TotalCBAfter  float64              `json:"totalCbAfter"`
	Members       []PoolMemberResponse `json:"members"`
	CreatedAt     time.Time            `json:"createdAt"`
}

type CreatePoolResponse struct {
	Message string       `json:"message"`
	Pool    PoolResponse `json:"pool"`
}
