package dto

import "time"

type ComplianceResponse struct {
	ID        int64     `json:"id"`
	ShipID    string    `json:"shipId"`
	Year      int       `json:"year"`
	CBGco2eq  float64   `json:"cbGco2eq"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListComplianceResponse struct {
	Records []ComplianceResponse `json:"records"`
}

type AdjustedBalanceResponse struct {
	ShipID   string  `json:"shipId"`
	Year     int     `json:"year"`
	CBBefore float64 `json:"cbBefore"`
	Applied  float64 `json:"applied"`
	CBAfter  float64 `json:"cbAfter"`
}
