package media

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/catalogo-io/catalog-admin/pkg/enums"
	pkgerrors "github.com/catalogo-io/catalog-admin/pkg/errors"
)

// MaxUploadBytes is the default per-file size cap of 20 MiB. Deployments
// override it through the media config.
const MaxUploadBytes = 20 * 1024 * 1024

var extensionsByType = map[enums.MediaType][]string{
	enums.MediaTypeImage: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
	enums.MediaTypeVideo: {".mp4", ".mov", ".avi", ".mkv", ".webm"},
}

var (
	typeByExtension   = buildTypeByExtension()
	allowedExtensions = buildAllowedExtensions()
)

func buildTypeByExtension() map[string]enums.MediaType {
	result := make(map[string]enums.MediaType)
	for mediaType, exts := range extensionsByType {
		for _, ext := range exts {
			result[ext] = mediaType
		}
	}
	return result
}

func buildAllowedExtensions() []string {
	list := make([]string, 0, len(typeByExtension))
	for ext := range typeByExtension {
		list = append(list, ext)
	}
	sort.Strings(list)
	return list
}

// FileInput describes an upload candidate by metadata only; the file body
// never passes through this service.
type FileInput struct {
	Name      string
	SizeBytes int64
	Ref       string
}

// DetectType classifies a filename by extension. Unknown or missing
// extensions are rejected.
func DetectType(name string) (enums.MediaType, error) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	ext := strings.ToLower(path.Ext(clean))
	if ext == "" || ext == "." {
		return "", pkgerrors.New(pkgerrors.CodeUnsupportedFormat,
			fmt.Sprintf("file %q has no extension; allowed: %s", clean, strings.Join(allowedExtensions, " ")))
	}
	mediaType, ok := typeByExtension[ext]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeUnsupportedFormat,
			fmt.Sprintf("extension %q is not allowed; allowed: %s", ext, strings.Join(allowedExtensions, " ")))
	}
	return mediaType, nil
}

// Validator applies the upload rules with a configurable size ceiling.
type Validator struct {
	maxBytes int64
}

// NewValidator returns a validator capping files at maxBytes. Non-positive
// values fall back to MaxUploadBytes.
func NewValidator(maxBytes int64) *Validator {
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	return &Validator{maxBytes: maxBytes}
}

var defaultValidator = NewValidator(MaxUploadBytes)

// ValidateFile checks a single file's extension and size. The returned type
// is only meaningful when err is nil.
func (v *Validator) ValidateFile(file FileInput) (enums.MediaType, error) {
	mediaType, err := DetectType(file.Name)
	if err != nil {
		return "", err
	}
	if file.SizeBytes <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if file.SizeBytes > v.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeTooLarge,
			fmt.Sprintf("file %q is %d bytes; limit is %d", strings.TrimSpace(file.Name), file.SizeBytes, v.maxBytes))
	}
	return mediaType, nil
}

// ValidateBatch validates every file and reports all failures together.
// A batch with any invalid file is rejected as a whole.
func (v *Validator) ValidateBatch(files []FileInput) ([]enums.MediaType, error) {
	types := make([]enums.MediaType, len(files))
	var combined error
	details := make(map[string]string)
	for i, file := range files {
		mediaType, err := v.ValidateFile(file)
		if err != nil {
			combined = multierr.Append(combined, err)
			details[fileLabel(file, i)] = err.Error()
			continue
		}
		types[i] = mediaType
	}
	if combined != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMediaValidation, combined,
			fmt.Sprintf("%d of %d files rejected", len(details), len(files))).
			WithDetails(details)
	}
	return types, nil
}

// ValidateFile applies the default ceiling; services built without an
// explicit validator use this path.
func ValidateFile(file FileInput) (enums.MediaType, error) {
	return defaultValidator.ValidateFile(file)
}

// ValidateBatch applies the default ceiling.
func ValidateBatch(files []FileInput) ([]enums.MediaType, error) {
	return defaultValidator.ValidateBatch(files)
}

func fileLabel(file FileInput, idx int) string {
	name := strings.TrimSpace(file.Name)
	if name == "" {
		return fmt.Sprintf("file[%d]", idx)
	}
	return name
}
