package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxImageBytes is the profile picture cap (2 MiB).
const DefaultMaxImageBytes = 2 << 20

var (
	ErrNoExtension        = errors.New("file has no extension")
	ErrExtensionDenied    = errors.New("file extension not allowed")
	ErrDeclaredTypeDenied = errors.New("declared content type not allowed")
	ErrContentMismatch    = errors.New("file content is not an allowed image")
	ErrFileTooLarge       = errors.New("file exceeds the size limit")
	ErrEmptyFile          = errors.New("file is empty")
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Extension    string // lowercase, without the dot
	DetectedMIME string
	Err          error
}

func (r FileValidationResult) Valid() bool {
	return r.Err == nil
}

// Allowed image extensions (strict whitelist)
var allowedImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// Declared content types accepted from the client. image/jpg is not a
// registered type but browsers still send it.
var allowedDeclaredTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

var allowedSniffedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ValidateImage checks an uploaded image in four layers:
// extension whitelist, declared type, sniffed content type, size cap.
// maxBytes <= 0 uses DefaultMaxImageBytes.
func ValidateImage(filename, declaredType string, data []byte, maxBytes int64) FileValidationResult {
	var result FileValidationResult

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		result.Err = ErrNoExtension
		return result
	}
	result.Extension = ext
	if !allowedImageExtensions[ext] {
		result.Err = fmt.Errorf("%w: %s", ErrExtensionDenied, ext)
		return result
	}

	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(declaredType, ";", 2)[0]))
	if !allowedDeclaredTypes[declared] {
		result.Err = fmt.Errorf("%w: %s", ErrDeclaredTypeDenied, declared)
		return result
	}

	if len(data) == 0 {
		result.Err = ErrEmptyFile
		return result
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if int64(len(data)) > maxBytes {
		result.Err = ErrFileTooLarge
		return result
	}

	mtype := mimetype.Detect(data)
	result.DetectedMIME = mtype.String()
	if !allowedSniffedTypes[mtype.String()] {
		result.Err = fmt.Errorf("%w: %s", ErrContentMismatch, mtype.String())
		return result
	}

	return result
}

// AllowedImageExtensions lists the accepted extensions for error messages.
func AllowedImageExtensions() []string {
	return []string{"png", "jpg", "jpeg", "gif"}
}
