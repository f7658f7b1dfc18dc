package document

import (
	"time"

	"github.com/giovassz/inventario/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Quantity  int                `bson:"quantity"`
	Price     float64            `bson:"price"`
	Image     string             `bson:"image,omitempty"`
	Notes     string             `bson:"notes"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (doc ProductDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func (doc *ProductDocument) ToDomain() *domain.Product {
	return &domain.Product{
		ID:        domain.ID(doc.ID.Hex()),
		Name:      doc.Name,
		Quantity:  doc.Quantity,
		Price:     doc.Price,
		Image:     doc.Image,
		Notes:     doc.Notes,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func ToProductDocument(p *domain.Product) *ProductDocument {
	return &ProductDocument{
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Image:     p.Image,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
