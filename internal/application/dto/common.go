package dto

import "github.com/shopspring/decimal"

func init() {
	// Las cantidades viajan como número JSON, igual que las emite el frontend.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse cuerpo de respuestas sin entidad (ej. DELETE).
type MessageResponse struct {
	Message string `json:"message"`
}
