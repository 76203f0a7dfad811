package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImage(t *testing.T) {
	pngData := encodePNG(t, 4, 4)
	jpegData := encodeJPEG(t, 4, 4)

	tests := []struct {
		name     string
		filename string
		declared string
		data     []byte
		max      int64
		wantErr  error
		wantMIME string
	}{
		{name: "png ok", filename: "me.png", declared: "image/png", data: pngData, wantMIME: "image/png"},
		{name: "jpg declared as image/jpg", filename: "ME.JPG", declared: "image/jpg", data: jpegData, wantMIME: "image/jpeg"},
		{name: "no extension", filename: "me", declared: "image/png", data: pngData, wantErr: ErrNoExtension},
		{name: "svg extension", filename: "me.svg", declared: "image/svg+xml", data: pngData, wantErr: ErrExtensionDenied},
		{name: "declared type denied", filename: "me.png", declared: "application/octet-stream", data: pngData, wantErr: ErrDeclaredTypeDenied},
		{name: "spoofed content", filename: "me.png", declared: "image/png", data: []byte("<?php echo 1; ?>"), wantErr: ErrContentMismatch},
		{name: "too large", filename: "me.png", declared: "image/png", data: pngData, max: 8, wantErr: ErrFileTooLarge},
		{name: "empty", filename: "me.png", declared: "image/png", data: nil, wantErr: ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateImage(tt.filename, tt.declared, tt.data, tt.max)
			if tt.wantErr != nil {
				assert.ErrorIs(t, result.Err, tt.wantErr)
				assert.False(t, result.Valid())
				return
			}
			assert.NoError(t, result.Err)
			assert.True(t, result.Valid())
			assert.Equal(t, tt.wantMIME, result.DetectedMIME)
		})
	}
}
