package dto

// StoreResponse almacén.
type StoreResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// UnitResponse unidad de medida.
type UnitResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
}

// CategoryResponse categoría.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
