package dto

import "github.com/jhoicas/inventario-pos/internal/application/notify"

// Paginación por página (1-based), como la tabla de productos.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// PageRequest paginación para listados.
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// Normalize aplica valores por defecto y límites.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset índice del primer elemento de la página.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula el total de páginas.
func NewPageResponse(p PageRequest, total int) PageResponse {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return PageResponse{Page: p.Page, PageSize: p.PageSize, Total: total, TotalPages: pages}
}

// ErrorResponse cuerpo de error HTTP. Outcomes se incluye en acciones iniciadas por el usuario.
type ErrorResponse struct {
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Outcomes []notify.Outcome `json:"outcomes,omitempty"`
}

// OutcomeResponse respuesta de acciones sin datos (ej. eliminar).
type OutcomeResponse struct {
	Outcomes []notify.Outcome `json:"outcomes"`
}
