package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/C-SergioSilva/Mg-gourmet/internal/app/dto"
	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
)

// ProductService orchestrates the product repository and the image store.
// Authorization is the boundary's responsibility: handlers consult
// CanUserAccessProduct before calling UpdateProduct or DeleteProduct; the
// service itself does not re-check ownership.
type ProductService struct {
	repo              domain.ProductRepository
	images            domain.ImageStore
	tracer            trace.Tracer
	logger            *slog.Logger
	productsCreated   metric.Int64Counter
	productOperations metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	images domain.ImageStore,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	productsCreated, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)
	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:              repo,
		images:            images,
		tracer:            tracer,
		logger:            logger,
		productsCreated:   productsCreated,
		productOperations: productOperations,
	}
}

func (s *ProductService) recordOp(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// ListProducts retrieves all products with their owners resolved. The
// listing is public and newest-created first.
func (s *ProductService) ListProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve products")
		s.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
		)
		s.recordOp(ctx, "list", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.recordOp(ctx, "list", "success")
	return dto.ToProductResponseList(products), nil
}

// ListProductsByUser retrieves the products owned by userID, newest first.
func (s *ProductService) ListProductsByUser(ctx context.Context, userID int64) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProductsByUser")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	products, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		s.recordOp(ctx, "list_by_user", "failure")
		return nil, err
	}

	s.recordOp(ctx, "list_by_user", "success")
	return dto.ToProductResponseList(products), nil
}

// GetProductByID retrieves a product by ID. Reads have no ownership filter.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Product not found")
		s.recordOp(ctx, "read", "not_found")
		return nil, err
	}

	s.recordOp(ctx, "read", "success")
	return dto.ToProductResponse(product), nil
}

// CreateProduct creates a product owned by ownerID. When an image upload is
// supplied its blob is stored first and the resulting key attached before
// the record is created; a failed create removes the fresh blob again.
func (s *ProductService) CreateProduct(ctx context.Context, form *dto.ProductForm, ownerID int64, upload *dto.ImageUpload) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.name", form.Name),
		attribute.Int64("user.id", ownerID),
	)

	if form.Price == nil {
		s.recordOp(ctx, "create", "failure")
		return nil, domain.ErrInvalidProductPrice
	}

	product, err := domain.NewProduct(form.Name, form.Description, *form.Price, ownerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		s.recordOp(ctx, "create", "failure")
		return nil, err
	}

	if upload != nil {
		key, err := s.images.Store(ctx, upload.Data, upload.Filename)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to store image")
			s.logger.ErrorContext(ctx, "Failed to store product image",
				slog.String("error", err.Error()),
			)
			s.recordOp(ctx, "create", "failure")
			return nil, err
		}
		product.UpdateImage(key)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store product")
		s.logger.ErrorContext(ctx, "Failed to store product",
			slog.String("error", err.Error()),
		)
		if product.HasImage() {
			// The record never existed, so the fresh blob is garbage.
			if derr := s.images.Delete(ctx, product.Image); derr != nil {
				s.logger.WarnContext(ctx, "Failed to clean up image after create failure",
					slog.String("key", product.Image),
					slog.String("error", derr.Error()),
				)
			}
		}
		s.recordOp(ctx, "create", "failure")
		return nil, err
	}

	s.productsCreated.Add(ctx, 1)
	s.recordOp(ctx, "create", "success")
	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int64("product_id", product.ID),
	)

	span.SetAttributes(attribute.Int64("product.id", product.ID))
	return dto.ToProductResponse(product), nil
}

// UpdateProduct overwrites the product's fields and optionally replaces its
// image. The new blob is written before the record update and the old blob
// removed only afterwards, so a crash never leaves the record pointing at a
// deleted blob. Returns domain.ErrProductNotFound when id does not exist.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, form *dto.ProductForm, upload *dto.ImageUpload) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Product not found")
		s.recordOp(ctx, "update", "not_found")
		return nil, err
	}

	fields := domain.ProductUpdate{
		Name:        &form.Name,
		Description: &form.Description,
		Price:       form.Price,
	}

	var newKey string
	if upload != nil {
		newKey, err = s.images.Store(ctx, upload.Data, upload.Filename)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to store image")
			s.recordOp(ctx, "update", "failure")
			return nil, err
		}
		fields.Image = &newKey
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update product")
		s.logger.ErrorContext(ctx, "Failed to update product",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
		if newKey != "" {
			if derr := s.images.Delete(ctx, newKey); derr != nil {
				s.logger.WarnContext(ctx, "Failed to clean up image after update failure",
					slog.String("key", newKey),
					slog.String("error", derr.Error()),
				)
			}
		}
		s.recordOp(ctx, "update", "failure")
		return nil, err
	}

	if newKey != "" && existing.HasImage() {
		// Old blob is unreferenced now; Delete is idempotent so a failure
		// here is logged and left for a retry, not surfaced.
		if derr := s.images.Delete(ctx, existing.Image); derr != nil {
			s.logger.WarnContext(ctx, "Failed to delete replaced image",
				slog.String("key", existing.Image),
				slog.String("error", derr.Error()),
			)
		}
	}

	s.recordOp(ctx, "update", "success")
	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.Int64("product_id", id),
	)
	return dto.ToProductResponse(updated), nil
}

// DeleteProduct removes the product and its image blob, blob first. Returns
// domain.ErrProductNotFound when id does not exist.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Product not found")
		s.recordOp(ctx, "delete", "not_found")
		return err
	}

	if product.HasImage() {
		if err := s.images.Delete(ctx, product.Image); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to delete image")
			s.logger.ErrorContext(ctx, "Failed to delete product image",
				slog.String("key", product.Image),
				slog.String("error", err.Error()),
			)
			s.recordOp(ctx, "delete", "failure")
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete product")
		s.recordOp(ctx, "delete", "failure")
		return err
	}

	s.recordOp(ctx, "delete", "success")
	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.Int64("product_id", id),
	)
	return nil
}

// CanUserAccessProduct resolves the product and applies the ownership
// policy. An absent product yields false, not an error.
func (s *ProductService) CanUserAccessProduct(ctx context.Context, productID, userID int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CanUserAccessProduct")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("product.id", productID),
		attribute.Int64("user.id", userID),
	)

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return false, nil
		}
		span.RecordError(err)
		return false, err
	}
	return domain.CanMutate(product, userID), nil
}
