package service

import (
	"context"

	"github.com/giovassz/inventario/internal/core/domain"
	"github.com/giovassz/inventario/internal/core/dto"
	"github.com/giovassz/inventario/internal/core/logger"
	"github.com/giovassz/inventario/internal/core/port"
	"github.com/giovassz/inventario/internal/core/serviceerrors"
)

type ProductService struct {
	productRepository port.ProductPort
	txManager         port.TransactionManager
}

func NewProductService(productRepository port.ProductPort, txManager port.TransactionManager) *ProductService {
	return &ProductService{productRepository: productRepository, txManager: txManager}
}

func (s *ProductService) CreateProduct(ctx context.Context, request *dto.CreateProductRequest) (*domain.Product, error) {
	product := domain.NewProduct(request.Name, int(request.Quantity), float64(request.Price), request.Image, request.Notes)
	if product.Name == "" {
		return nil, serviceerrors.NewInvalidRequestError("product name is required")
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.productRepository.Create(txCtx, product)
	})
	if err != nil {
		logger.Error(ctx, "product: create failed", err, map[string]any{
			"name":     product.Name,
			"quantity": product.Quantity,
			"price":    product.Price,
		})
		return nil, err
	}

	logger.Info(ctx, "Product created", map[string]any{"product_id": product.ID})
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepository.List(ctx)
}

func (s *ProductService) ListRecentProducts(ctx context.Context, limit int64) ([]*domain.Product, error) {
	return s.productRepository.ListRecent(ctx, limit)
}

// DeleteProduct is idempotent to the caller: a delete of an id that no
// longer exists reports success.
func (s *ProductService) DeleteProduct(ctx context.Context, id domain.ID) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.productRepository.Delete(txCtx, id)
	})
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			logger.Warn(ctx, "Product already absent", map[string]any{"product_id": id})
			return nil
		}
		logger.Error(ctx, "product: delete failed", err, map[string]any{"product_id": id})
		return err
	}

	logger.Info(ctx, "Product deleted", map[string]any{"product_id": id})
	return nil
}
