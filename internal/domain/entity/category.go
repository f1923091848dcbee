package entity

import "time"

// Category representa un tipo de tela (categoría de stock), opcionalmente con imagen.
type Category struct {
	ID          string
	Name        string
	Description string
	Image       string // URL pública de la imagen; vacío si no tiene
	CreatedAt   time.Time
}
