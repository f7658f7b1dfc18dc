package domain

import (
	"strings"
	"time"
)

type Product struct {
	ID        ID
	Name      string
	Quantity  int
	Price     float64
	Image     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct trims text fields and clamps numeric fields to the schema
// minimum of zero. Name presence is validated at the service layer.
func NewProduct(name string, quantity int, price float64, image, notes string) *Product {
	if quantity < 0 {
		quantity = 0
	}
	if price < 0 {
		price = 0
	}
	return &Product{
		Name:      strings.TrimSpace(name),
		Quantity:  quantity,
		Price:     price,
		Image:     strings.TrimSpace(image),
		Notes:     strings.TrimSpace(notes),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

type ProductCreatedEvent struct {
	ProductID ID        `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ProductCreatedEvent) GetName() string {
	return "product.created"
}

func (e *ProductCreatedEvent) GetEntityName() string {
	return "product"
}

func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
	}
}

type ProductDeletedEvent struct {
	ProductID ID        `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e *ProductDeletedEvent) GetName() string {
	return "product.deleted"
}

func (e *ProductDeletedEvent) GetEntityName() string {
	return "product"
}

func NewProductDeletedEvent(id ID, deletedAt time.Time) *ProductDeletedEvent {
	return &ProductDeletedEvent{ProductID: id, DeletedAt: deletedAt}
}
