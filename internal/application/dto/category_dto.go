package dto

import "time"

// CreateCategoryRequest campos de formulario multipart para POST /api/categories.
// La imagen opcional viaja como archivo en el campo "image".
type CreateCategoryRequest struct {
	Name        string `form:"name"`
	Description string `form:"description"`
}

// UpdateCategoryRequest campos opcionales para PUT /api/categories/:id.
// nil significa "no enviado": el valor actual se conserva.
type UpdateCategoryRequest struct {
	Name        *string
	Description *string
}

// CategoryResponse representación JSON de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}
