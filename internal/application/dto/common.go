package dto

// PageResponse metadatos de listados.
type PageResponse struct {
	Total int    `json:"total"`
	Query string `json:"query,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
