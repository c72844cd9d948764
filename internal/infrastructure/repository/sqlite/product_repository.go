package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
)

// timeLayout pads fractional seconds to a fixed width so lexicographic
// ordering of the stored text matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ProductRepository is the SQLite implementation of domain.ProductRepository.
type ProductRepository struct {
	db     *sql.DB
	tracer trace.Tracer
	logger *slog.Logger
}

// NewProductRepository creates a new SQLite-backed product repository
func NewProductRepository(db *sql.DB, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		tracer: tracer,
		logger: logger,
	}
}

const productColumns = `id, name, description, price, image, user_id, created_at, updated_at`

// Create stores a new product, assigning its id and timestamps.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, description, price, image, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.Name,
		product.Description,
		product.Price.StringFixed(2),
		nullableString(product.Image),
		product.UserID,
		now.Format(timeLayout),
		now.Format(timeLayout),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product id: %w", err)
	}
	product.ID = id
	product.CreatedAt = now
	product.UpdatedAt = now

	span.SetAttributes(attribute.Int64("product.id", id))
	r.logger.InfoContext(ctx, "Product created in repository",
		slog.Int64("product_id", id),
		slog.String("product_name", product.Name),
	)
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	product, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			span.SetStatus(codes.Error, "Product not found")
			return nil, domain.ErrProductNotFound
		}
		span.RecordError(err)
		return nil, err
	}
	return product, nil
}

// FindByUser retrieves the products owned by userID, newest-created first.
func (r *ProductRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByUser")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query products by user: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// FindAll retrieves every product, newest-created first, with the owning
// user resolved.
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.description, p.price, p.image, p.user_id, p.created_at, p.updated_at,
		        u.id, u.name, u.email, u.created_at, u.updated_at
		 FROM products p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var (
			p              domain.Product
			u              domain.User
			price          string
			image          sql.NullString
			pCreated, pUpd string
			uCreated, uUpd string
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &price, &image, &p.UserID, &pCreated, &pUpd,
			&u.ID, &u.Name, &u.Email, &uCreated, &uUpd,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if err := hydrateProduct(&p, price, image, pCreated, pUpd); err != nil {
			return nil, err
		}
		var err error
		if u.CreatedAt, err = time.Parse(time.RFC3339Nano, uCreated); err != nil {
			return nil, fmt.Errorf("parse user created_at: %w", err)
		}
		if u.UpdatedAt, err = time.Parse(time.RFC3339Nano, uUpd); err != nil {
			return nil, fmt.Errorf("parse user updated_at: %w", err)
		}
		p.Owner = &u
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}

// Update applies a partial overwrite of the given fields and returns the
// post-update state. Untouched fields keep their values.
func (r *ProductRepository) Update(ctx context.Context, id int64, fields domain.ProductUpdate) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	set := "updated_at = ?"
	args := []any{time.Now().UTC().Format(timeLayout)}
	if fields.Name != nil {
		set += ", name = ?"
		args = append(args, *fields.Name)
	}
	if fields.Description != nil {
		set += ", description = ?"
		args = append(args, *fields.Description)
	}
	if fields.Price != nil {
		set += ", price = ?"
		args = append(args, fields.Price.Round(2).StringFixed(2))
	}
	if fields.Image != nil {
		set += ", image = ?"
		args = append(args, nullableString(*fields.Image))
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE products SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.ErrProductNotFound
	}

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.Int64("product_id", id),
	)
	return r.FindByID(ctx, id)
}

// Delete removes a product. Deleting an absent id reports NotFound.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "Product not found")
		return domain.ErrProductNotFound
	}

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.Int64("product_id", id),
	)
	return nil
}

func scanProduct(scan func(...any) error) (*domain.Product, error) {
	var (
		p            domain.Product
		price        string
		image        sql.NullString
		created, upd string
	)
	if err := scan(&p.ID, &p.Name, &p.Description, &price, &image, &p.UserID, &created, &upd); err != nil {
		return nil, err
	}
	if err := hydrateProduct(&p, price, image, created, upd); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func hydrateProduct(p *domain.Product, price string, image sql.NullString, created, updated string) error {
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = parsed
	if image.Valid {
		p.Image = image.String
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return fmt.Errorf("parse updated_at: %w", err)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
