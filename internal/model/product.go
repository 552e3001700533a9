package model

import (
	"math"
	"strings"
	"time"

	"github.com/iliyamo/shop-backend/internal/apperr"
)

// Product is a catalogue entry. Image is the public path of the uploaded
// picture, e.g. /uploads/1712345678901.png.
type Product struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidateProductFields checks the form fields that must hold before an
// upload is accepted.
func ValidateProductFields(title string, price float64) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("O título do produto é obrigatório.")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return apperr.Validation("Preço inválido.")
	}
	return nil
}

// NewProduct validates a product before it is persisted.
func NewProduct(title string, price float64, description, image string, now time.Time) (Product, error) {
	if err := ValidateProductFields(title, price); err != nil {
		return Product{}, err
	}
	title = strings.TrimSpace(title)
	if image == "" {
		return Product{}, apperr.Validation("Nenhum arquivo de imagem foi enviado.")
	}
	return Product{
		Title:       title,
		Price:       price,
		Description: description,
		Image:       image,
		CreatedAt:   now.UTC(),
	}, nil
}
