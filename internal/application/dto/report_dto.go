package dto

import "time"

// StockRow fila del reporte de stock actual (sin historial).
type StockRow struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
	Location  string `json:"location"`
	Requester string `json:"requester"`
	EntryDate string `json:"entry_date,omitempty"`
	Notes     string `json:"notes,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// StockReport reporte de stock actual.
type StockReport struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Rows        []StockRow `json:"rows"`
}

// HistoryRow fila del historial de un material. Balance es la cantidad acumulada
// después del movimiento.
type HistoryRow struct {
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Balance   int64     `json:"balance"`
}

// HistoryReport historial de movimientos de un material, en orden cronológico.
type HistoryReport struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Quantity    int64        `json:"quantity"`
	Rows        []HistoryRow `json:"rows"`
}
