package entity

// Category categoría de productos.
type Category struct {
	ID   string
	Name string
}

// UncategorizedName nombre mostrado para productos sin categoría.
const UncategorizedName = "Sin categoría"
