package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/catalogo-io/catalog-admin/api/responses"
	"github.com/catalogo-io/catalog-admin/api/validators"
	"github.com/catalogo-io/catalog-admin/internal/media"
	productsvc "github.com/catalogo-io/catalog-admin/internal/products"
	pkgerrors "github.com/catalogo-io/catalog-admin/pkg/errors"
	"github.com/catalogo-io/catalog-admin/pkg/logger"
	"github.com/catalogo-io/catalog-admin/pkg/pagination"
)

type fileInputRequest struct {
	Name      string `json:"name" validate:"required"`
	SizeBytes int64  `json:"size_bytes"`
	Ref       string `json:"ref,omitempty"`
}

type mediaEditRequest struct {
	MediaID  string `json:"media_id" validate:"required,uuid4"`
	Position *int   `json:"position,omitempty"`
	Delete   bool   `json:"delete,omitempty"`
}

type createProductRequest struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Description *string            `json:"description,omitempty"`
	CategoryID  string             `json:"category_id" validate:"required,uuid4"`
	Price       string             `json:"price" validate:"required"`
	IsActive    *bool              `json:"is_active,omitempty"`
	NewFiles    []fileInputRequest `json:"new_files,omitempty" validate:"omitempty,dive"`
}

type updateProductRequest struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	CategoryID  *string            `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Price       *string            `json:"price,omitempty"`
	IsActive    *bool              `json:"is_active,omitempty"`
	NewFiles    []fileInputRequest `json:"new_files,omitempty" validate:"omitempty,dive"`
	MediaEdits  []mediaEditRequest `json:"media_edits,omitempty" validate:"omitempty,dive"`
}

func (req createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category_id")
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return productsvc.CreateProductInput{
		Name:        validators.SanitizeString(req.Name, 200),
		Description: req.Description,
		CategoryID:  categoryID,
		Price:       price,
		IsActive:    active,
		NewFiles:    toFileInputs(req.NewFiles),
	}, nil
}

func (req updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Description: req.Description,
		IsActive:    req.IsActive,
		NewFiles:    toFileInputs(req.NewFiles),
	}

	if req.Name != nil {
		name := validators.SanitizeString(*req.Name, 200)
		input.Name = &name
	}

	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category_id")
		}
		input.CategoryID = &categoryID
	}

	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return productsvc.UpdateProductInput{}, err
		}
		input.Price = &price
	}

	for _, edit := range req.MediaEdits {
		mediaID, err := uuid.Parse(edit.MediaID)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid media_id")
		}
		input.MediaEdits = append(input.MediaEdits, productsvc.MediaEdit{
			MediaID:  mediaID,
			Position: edit.Position,
			Delete:   edit.Delete,
		})
	}

	return input, nil
}

func toFileInputs(files []fileInputRequest) []media.FileInput {
	if len(files) == 0 {
		return nil
	}
	inputs := make([]media.FileInput, 0, len(files))
	for _, f := range files {
		inputs = append(inputs, media.FileInput{
			Name:      f.Name,
			SizeBytes: f.SizeBytes,
			Ref:       f.Ref,
		})
	}
	return inputs
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be a decimal number").
			WithDetails(map[string]string{"field": "price"})
	}
	return price, nil
}

// ProductCreate creates a product and attaches any uploaded media in a
// single transaction.
func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate applies field changes, media edits and new attachments as
// one all-or-nothing write.
func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductList returns a cursor-paginated page of products, newest first,
// optionally filtered by category via the category_id query parameter.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var categoryID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category_id"))
				return
			}
			categoryID = &id
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), categoryID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
