package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/C-SergioSilva/Mg-gourmet/internal/app/dto"
	"github.com/C-SergioSilva/Mg-gourmet/internal/app/service"
	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/http/middleware"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/http/response"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/products (public)
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	response.Success(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id} (public)
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(w, http.StatusNotFound, "Product not found")
		} else {
			response.Error(w, http.StatusInternalServerError, "Failed to retrieve product")
		}
		return
	}
	response.Success(w, http.StatusOK, product)
}

// MyProducts handles GET /api/my-products (authenticated, caller-scoped)
func (h *ProductHandler) MyProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	products, err := h.service.ListProductsByUser(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve your products")
		return
	}
	response.Success(w, http.StatusOK, products)
}

// CreateProduct handles POST /api/products (authenticated)
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	form, upload, err := decodeProductForm(r)
	if err != nil {
		writeFormError(w, err)
		return
	}
	if err := validateForm(form, upload); err != nil {
		writeFormError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), form, userID, upload)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to create product",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	response.SuccessMessage(w, http.StatusCreated, "Product created successfully", product)
}

// UpdateProduct handles PUT/PATCH /api/products/{id} (authenticated, owner only)
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	id, ok := productID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	form, upload, err := decodeProductForm(r)
	if err != nil {
		writeFormError(w, err)
		return
	}
	if err := validateForm(form, upload); err != nil {
		writeFormError(w, err)
		return
	}

	if !h.authorizeMutation(w, r, id, userID) {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, form, upload)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(w, http.StatusNotFound, "Product not found")
		} else {
			h.logger.ErrorContext(r.Context(), "Failed to update product",
				slog.String("error", err.Error()),
			)
			response.Error(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}
	response.SuccessMessage(w, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /api/products/{id} (authenticated, owner only)
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	id, ok := productID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	if !h.authorizeMutation(w, r, id, userID) {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(w, http.StatusNotFound, "Product not found")
		} else {
			h.logger.ErrorContext(r.Context(), "Failed to delete product",
				slog.String("error", err.Error()),
			)
			response.Error(w, http.StatusInternalServerError, "Failed to delete product")
		}
		return
	}
	response.SuccessMessage(w, http.StatusOK, "Product deleted successfully", nil)
}

// authorizeMutation applies the ownership policy before a mutation and
// writes the 403/404/500 itself when the caller may not proceed. A missing
// product is reported as 404, not 403, so the two cases stay distinct.
func (h *ProductHandler) authorizeMutation(w http.ResponseWriter, r *http.Request, id, userID int64) bool {
	allowed, err := h.service.CanUserAccessProduct(r.Context(), id, userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to authorize request")
		return false
	}
	if allowed {
		return true
	}
	if _, err := h.service.GetProductByID(r.Context(), id); errors.Is(err, domain.ErrProductNotFound) {
		response.Error(w, http.StatusNotFound, "Product not found")
	} else {
		response.Error(w, http.StatusForbidden, "Unauthorized access to this product")
	}
	return false
}

func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func validateForm(form *dto.ProductForm, upload *dto.ImageUpload) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if upload != nil {
		return upload.Validate()
	}
	return nil
}

func writeFormError(w http.ResponseWriter, err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		response.ValidationFailed(w, verr.Fields)
		return
	}
	response.Error(w, http.StatusBadRequest, "Invalid request body")
}

// decodeProductForm accepts the product payload either as JSON or as
// multipart form fields with an optional image part.
func decodeProductForm(r *http.Request) (*dto.ProductForm, *dto.ImageUpload, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return decodeMultipartForm(r)
	}

	var form dto.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return nil, nil, err
	}
	return &form, nil, nil
}

func decodeMultipartForm(r *http.Request) (*dto.ProductForm, *dto.ImageUpload, error) {
	// Slack above the image cap so oversize uploads fail validation with a
	// field message instead of a parse error.
	if err := r.ParseMultipartForm(dto.MaxImageBytes + 1<<20); err != nil {
		return nil, nil, err
	}

	form := &dto.ProductForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}
	if raw := r.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, nil, &dto.ValidationError{Fields: map[string]string{
				"price": "The price must be a number.",
			}}
		}
		form.Price = &price
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil, nil
		}
		return nil, nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, dto.MaxImageBytes+1))
	if err != nil {
		return nil, nil, err
	}
	return form, &dto.ImageUpload{Filename: header.Filename, Data: data}, nil
}
