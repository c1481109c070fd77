package models

type Product struct {
	ID          int64  `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProductQuery is a name search over the catalogue.
type ProductQuery struct {
	Q     string
	Limit int
}
