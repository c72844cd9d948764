// Package memory provides in-memory repository implementations used by
// tests and local experiments.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	users    *UserRepository
	nextID   int64
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new in-memory product repository. The user
// repository, when given, is used to resolve owners in FindAll.
func NewProductRepository(users *UserRepository, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]*domain.Product),
		users:    users,
		tracer:   tracer,
		logger:   logger,
	}
}

// Create stores a new product, assigning its id and timestamps.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	product.ID = r.nextID
	product.CreatedAt = now
	product.UpdatedAt = now

	clone := *product
	r.products[product.ID] = &clone

	span.SetAttributes(
		attribute.Int64("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)
	r.logger.InfoContext(ctx, "Product created in repository",
		slog.Int64("product_id", product.ID),
		slog.String("product_name", product.Name),
	)
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.Int64("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	clone := *product
	return &clone, nil
}

// FindByUser retrieves the products owned by userID, newest-created first.
func (r *ProductRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindByUser")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []*domain.Product
	for _, p := range r.products {
		if p.UserID == userID {
			clone := *p
			products = append(products, &clone)
		}
	}
	sortNewestFirst(products)

	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}

// FindAll retrieves every product, newest-created first, with owners
// resolved when a user repository is attached.
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	products := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		clone := *p
		products = append(products, &clone)
	}
	r.mu.RUnlock()

	sortNewestFirst(products)

	if r.users != nil {
		for _, p := range products {
			owner, err := r.users.FindByID(ctx, p.UserID)
			if err == nil {
				p.Owner = owner
			}
		}
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}

// Update applies a partial overwrite and returns the post-update state.
func (r *ProductRepository) Update(ctx context.Context, id int64, fields domain.ProductUpdate) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists {
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.ErrProductNotFound
	}

	if fields.Name != nil {
		product.Name = *fields.Name
	}
	if fields.Description != nil {
		product.Description = *fields.Description
	}
	if fields.Price != nil {
		product.Price = fields.Price.Round(2)
	}
	if fields.Image != nil {
		product.Image = *fields.Image
	}
	product.UpdatedAt = time.Now().UTC()

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.Int64("product_id", id),
	)

	clone := *product
	return &clone, nil
}

// Delete removes a product. Deleting an absent id reports NotFound.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		span.SetStatus(codes.Error, "Product not found")
		return domain.ErrProductNotFound
	}
	delete(r.products, id)

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.Int64("product_id", id),
	)
	return nil
}

func sortNewestFirst(products []*domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID > products[j].ID
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}
