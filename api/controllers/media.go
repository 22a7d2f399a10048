package controllers

import (
	"net/http"

	"github.com/catalogo-io/catalog-admin/api/responses"
	"github.com/catalogo-io/catalog-admin/api/validators"
	mediasvc "github.com/catalogo-io/catalog-admin/internal/media"
	pkgerrors "github.com/catalogo-io/catalog-admin/pkg/errors"
	"github.com/catalogo-io/catalog-admin/pkg/logger"
)

type attachMediaRequest struct {
	Files []fileInputRequest `json:"files" validate:"required,min=1,dive"`
}

type validateMediaRequest struct {
	Files []fileInputRequest `json:"files" validate:"required,min=1,dive"`
}

type fileValidationResult struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type,omitempty"`
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
}

// MediaAttach appends a batch of files to a product's gallery. The batch is
// all-or-nothing: one bad file rejects every file.
func MediaAttach(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload attachMediaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.AttachFiles(r.Context(), productID, toFileInputs(payload.Files))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rows)
	}
}

func MediaList(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// MediaNormalize compacts a product's media positions into a dense 1..N
// sequence. Running it on an already dense gallery is a no-op.
func MediaNormalize(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		changed, err := svc.NormalizePositions(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"moved": changed})
	}
}

// MediaValidate dry-runs the upload rules against a batch of file metadata
// without touching any product. A nil validator applies the default ceiling.
func MediaValidate(validator *mediasvc.Validator, logg *logger.Logger) http.HandlerFunc {
	if validator == nil {
		validator = mediasvc.NewValidator(0)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var payload validateMediaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results := make([]fileValidationResult, 0, len(payload.Files))
		for _, f := range payload.Files {
			result := fileValidationResult{Name: f.Name}
			mediaType, err := validator.ValidateFile(mediasvc.FileInput{
				Name:      f.Name,
				SizeBytes: f.SizeBytes,
				Ref:       f.Ref,
			})
			if err != nil {
				result.Reason = err.Error()
				if typed := pkgerrors.As(err); typed != nil {
					result.Reason = typed.Message()
				}
			} else {
				result.Valid = true
				result.MediaType = string(mediaType)
			}
			results = append(results, result)
		}

		responses.WriteSuccess(w, results)
	}
}
