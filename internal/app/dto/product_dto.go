package dto

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
)

// MaxImageBytes is the upload size ceiling enforced at the boundary.
const MaxImageBytes = 2 << 20 // 2 MiB

// ProductForm is the request payload for create and update, accepted either
// as a JSON body or as multipart form fields. Price is a pointer so a
// missing field can be told apart from an explicit zero.
type ProductForm struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price"`
}

// Validate checks the form and returns a *ValidationError with per-field
// messages when it fails.
func (f *ProductForm) Validate() error {
	fields := structErrors(f)
	if f.Price == nil {
		fields["price"] = "The price field is required."
	} else if f.Price.IsNegative() {
		fields["price"] = "The price must be at least 0."
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ImageUpload carries the raw bytes of an uploaded product image.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// Validate enforces the boundary constraints on uploads: content sniffed to
// jpeg/png/gif and size capped at MaxImageBytes.
func (u *ImageUpload) Validate() error {
	fields := map[string]string{}
	if len(u.Data) > MaxImageBytes {
		fields["image"] = "The image may not be greater than 2048 kilobytes."
	} else {
		switch http.DetectContentType(u.Data) {
		case "image/jpeg", "image/png", "image/gif":
		default:
			fields["image"] = "The image must be a file of type: jpeg, png, jpg, gif."
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ProductResponse is the wire representation of a product. Image is null
// when the product has none; Price marshals as a two-digit decimal string.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image"`
	UserID      int64           `json:"user_id"`
	User        *UserResponse   `json:"user,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse.
func ToProductResponse(p *domain.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.HasImage() {
		image := p.Image
		resp.Image = &image
	}
	if p.Owner != nil {
		resp.User = ToUserResponse(p.Owner)
	}
	return resp
}

// ToProductResponseList converts a list of domain Products to ProductResponse list.
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
