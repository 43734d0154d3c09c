package entity

import "time"

// Store almacén o tienda. Solo lectura desde la API.
type Store struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
}

// Unit unidad de medida.
type Unit struct {
	ID     string
	Name   string
	Abbrev string
}
