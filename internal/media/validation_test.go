package media

import (
	"testing"

	"github.com/catalogo-io/catalog-admin/pkg/enums"
	pkgerrors "github.com/catalogo-io/catalog-admin/pkg/errors"
)

func TestValidateFile(t *testing.T) {
	cases := []struct {
		name     string
		file     FileInput
		wantType enums.MediaType
		wantCode pkgerrors.Code
	}{
		{
			name:     "jpeg image",
			file:     FileInput{Name: "photo.jpg", SizeBytes: 1024},
			wantType: enums.MediaTypeImage,
		},
		{
			name:     "uppercase extension",
			file:     FileInput{Name: "PHOTO.JPEG", SizeBytes: 1024},
			wantType: enums.MediaTypeImage,
		},
		{
			name:     "webm video",
			file:     FileInput{Name: "clip.webm", SizeBytes: 1024},
			wantType: enums.MediaTypeVideo,
		},
		{
			name:     "exactly at the size cap",
			file:     FileInput{Name: "big.png", SizeBytes: MaxUploadBytes},
			wantType: enums.MediaTypeImage,
		},
		{
			name:     "one byte over the cap",
			file:     FileInput{Name: "big.png", SizeBytes: MaxUploadBytes + 1},
			wantCode: pkgerrors.CodeTooLarge,
		},
		{
			name:     "disallowed extension",
			file:     FileInput{Name: "notes.txt", SizeBytes: 10},
			wantCode: pkgerrors.CodeUnsupportedFormat,
		},
		{
			name:     "no extension",
			file:     FileInput{Name: "README", SizeBytes: 10},
			wantCode: pkgerrors.CodeUnsupportedFormat,
		},
		{
			name:     "empty name",
			file:     FileInput{Name: "   ", SizeBytes: 10},
			wantCode: pkgerrors.CodeValidation,
		},
		{
			name:     "zero size",
			file:     FileInput{Name: "photo.jpg", SizeBytes: 0},
			wantCode: pkgerrors.CodeValidation,
		},
		{
			name:     "extension checked before size",
			file:     FileInput{Name: "huge.exe", SizeBytes: MaxUploadBytes * 2},
			wantCode: pkgerrors.CodeUnsupportedFormat,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mediaType, err := ValidateFile(tc.file)
			if tc.wantCode != "" {
				if err == nil {
					t.Fatalf("expected error code %s, got nil", tc.wantCode)
				}
				if !pkgerrors.HasCode(err, tc.wantCode) {
					t.Fatalf("expected code %s, got %v", tc.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mediaType != tc.wantType {
				t.Fatalf("expected type %s, got %s", tc.wantType, mediaType)
			}
		})
	}
}

func TestValidateBatchAllOrNothing(t *testing.T) {
	files := []FileInput{
		{Name: "cover.jpg", SizeBytes: 100},
		{Name: "manual.pdf", SizeBytes: 100},
		{Name: "huge.mp4", SizeBytes: MaxUploadBytes + 1},
	}

	types, err := ValidateBatch(files)
	if err == nil {
		t.Fatal("expected batch rejection")
	}
	if types != nil {
		t.Fatal("no types should be returned for a failed batch")
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeMediaValidation) {
		t.Fatalf("expected MEDIA_VALIDATION_FAILED, got %v", err)
	}

	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected per-file details, got %#v", typed.Details())
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 rejected files, got %d", len(details))
	}
	if _, ok := details["manual.pdf"]; !ok {
		t.Fatal("missing detail for manual.pdf")
	}
	if _, ok := details["huge.mp4"]; !ok {
		t.Fatal("missing detail for huge.mp4")
	}
}

func TestValidateBatchAllValid(t *testing.T) {
	files := []FileInput{
		{Name: "a.png", SizeBytes: 10},
		{Name: "b.mov", SizeBytes: 10},
	}
	types, err := ValidateBatch(files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(types) != 2 || types[0] != enums.MediaTypeImage || types[1] != enums.MediaTypeVideo {
		t.Fatalf("unexpected types %v", types)
	}
}

func TestValidatorHonorsConfiguredCeiling(t *testing.T) {
	v := NewValidator(1024)

	if _, err := v.ValidateFile(FileInput{Name: "small.jpg", SizeBytes: 1024}); err != nil {
		t.Fatalf("unexpected error at the ceiling: %v", err)
	}
	_, err := v.ValidateFile(FileInput{Name: "clip.mp4", SizeBytes: 1025})
	if err == nil || !pkgerrors.HasCode(err, pkgerrors.CodeTooLarge) {
		t.Fatalf("expected FILE_TOO_LARGE under a 1 KiB ceiling, got %v", err)
	}

	fallback := NewValidator(0)
	if _, err := fallback.ValidateFile(FileInput{Name: "big.png", SizeBytes: MaxUploadBytes}); err != nil {
		t.Fatalf("non-positive ceiling must fall back to the default: %v", err)
	}
}
