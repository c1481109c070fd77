package models

type HealthResponse struct {
	OK bool `json:"ok"`
}

type ProductsResponse struct {
	Items []Product `json:"items"`
	Q     string    `json:"q"`
	Limit int       `json:"limit"`
}

type OrderPlacedResponse struct {
	OK      bool  `json:"ok"`
	OrderID int64 `json:"order_id"`
}

type OrdersResponse struct {
	Items []OrderSummary `json:"items"`
}

type BadModeResponse struct {
	BadQueryMode string   `json:"bad_query_mode"`
	Default      string   `json:"default"`
	Allowed      []string `json:"allowed"`
}

type BadModeSetResponse struct {
	OK           bool   `json:"ok"`
	BadQueryMode string `json:"bad_query_mode"`
}

type RunsResponse struct {
	Items []RunRecord `json:"items"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Allowed []string `json:"allowed,omitempty"`
}
