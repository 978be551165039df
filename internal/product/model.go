package product

import "time"

type ProductType string

const (
	TypeSubscription ProductType = "subscription"
	TypePack         ProductType = "pack"
	TypeDropIn       ProductType = "drop_in"
)

type Product struct {
	ID              int         `db:"id" json:"id"`
	Name            string      `db:"name" json:"name"`
	Description     string      `db:"description" json:"description"`
	PriceCents      int64       `db:"price_cents" json:"price_cents"`
	Type            ProductType `db:"type" json:"type"`
	CreditsIncluded int         `db:"credits_included" json:"credits_included"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
}

type PurchaseResponse struct {
	Message string  `json:"message" example:"Purchase simulated"`
	Product Product `json:"product"`
}
