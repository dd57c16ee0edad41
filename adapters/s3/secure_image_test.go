package s3_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"neighborloop/adapters/s3"
)

func TestCheckSecureImageAndGetExtension(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		wantOK   bool
		wantExt  string
	}{
		{
			name:     "允許的jpeg圖片",
			mimeType: "image/jpeg",
			wantOK:   true,
			wantExt:  "jpeg",
		},
		{
			name:     "允許的png圖片",
			mimeType: "image/png",
			wantOK:   true,
			wantExt:  "png",
		},
		{
			name:     "不允許的svg圖片",
			mimeType: "image/svg+xml",
			wantOK:   false,
		},
		{
			name:     "不允許的非圖片類型",
			mimeType: "text/html",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, ext := s3.CheckSecureImageAndGetExtension(tt.mimeType)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantExt, ext)
			}
		})
	}
}

func TestListingObjectKey(t *testing.T) {
	t.Run("路徑包含items前綴和原始檔名", func(t *testing.T) {
		key := s3.ListingObjectKey("chair.jpg")
		assert.True(t, strings.HasPrefix(key, "items/"))
		assert.True(t, strings.HasSuffix(key, "-chair.jpg"))
	})

	t.Run("相同檔名產生不同路徑", func(t *testing.T) {
		assert.NotEqual(t, s3.ListingObjectKey("chair.jpg"), s3.ListingObjectKey("chair.jpg"))
	})
}
