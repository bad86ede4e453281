package service

import (
	"context"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/repository"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/applog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ProductService interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error
	SetStock(ctx context.Context, id, quantity int64) error
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewProductService(productRepo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger,
		tracer:      otel.Tracer("service/product_service"),
	}
}

func (s *productService) Create(ctx context.Context, product *domain.Product) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("name", product.Name),
	)

	if product.StockQuantity < 0 {
		return 0, ErrNegativeStock
	}

	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return 0, err
	}

	applog.Info(
		ctx,
		s.logger,
		"Product created",
		zap.Int64("product_id", id),
		zap.String("name", product.Name),
	)

	return id, nil
}

func (s *productService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.List")
	defer span.End()

	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.productRepo.List(ctx, limit, offset, search)
}

func (s *productService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	if err := s.productRepo.Update(ctx, id, input); err != nil {
		return err
	}

	applog.Info(ctx, s.logger, "Product updated", zap.Int64("product_id", id))
	return nil
}

// SetStock replaces a product's stock level outright. Admin restock path;
// order placement never goes through here.
func (s *productService) SetStock(ctx context.Context, id, quantity int64) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.SetStock")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.Int64("quantity", quantity),
	)

	if quantity < 0 {
		return ErrNegativeStock
	}

	if err := s.productRepo.SetStock(ctx, id, quantity); err != nil {
		return err
	}

	applog.Info(
		ctx,
		s.logger,
		"Stock set",
		zap.Int64("product_id", id),
		zap.Int64("quantity", quantity),
	)

	return nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	if err := s.productRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	applog.Info(ctx, s.logger, "Product deleted", zap.Int64("product_id", id))
	return nil
}
