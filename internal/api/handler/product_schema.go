package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses outside the account endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type productRequest struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description" validate:"required"`
	ImageURL    string  `json:"image_url"`
	OutOfStock  bool    `json:"out_of_stock"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
}

// productResponse is owned by the transport layer, separate from the
// domain type so the JSON contract does not leak internal fields.
type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	OutOfStock  bool      `json:"out_of_stock"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
