package s3_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"neighborloop/adapters/s3"
)

func TestMaxSizeReader(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		maxSize    int64
		wantN      int
		wantErr    bool
		wantErrMsg string
	}{
		{
			name:    "讀取小於限制的內容",
			input:   []byte("hello"),
			maxSize: 10,
			wantN:   5,
			wantErr: false,
		},
		{
			name:       "讀取超過限制的內容",
			input:      []byte("hello world"),
			maxSize:    5,
			wantN:      5,
			wantErr:    true,
			wantErrMsg: "reach limit of 5 bytes",
		},
		{
			name:    "讀取等於限制的內容",
			input:   []byte("hello"),
			maxSize: 5,
			wantN:   5,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := s3.NewMaxSizeReader(bytes.NewReader(tt.input), tt.maxSize)
			buf := make([]byte, len(tt.input)+1)
			n, err := reader.Read(buf)

			assert.Equal(t, tt.wantN, n)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErrMsg, err.Error())
				assert.True(t, errors.As(err, &s3.ErrReachLimitType))
			} else if err != nil {
				assert.ErrorIs(t, err, io.EOF)
			}
		})
	}
}

func TestMaxSizeReaderReadAll(t *testing.T) {
	t.Run("io.ReadAll在限制內可以讀完全部內容", func(t *testing.T) {
		input := bytes.Repeat([]byte("a"), 1024)
		reader := s3.NewMaxSizeReader(bytes.NewReader(input), 2048)
		got, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Equal(t, input, got)
	})

	t.Run("io.ReadAll超過限制時返回超限錯誤", func(t *testing.T) {
		input := bytes.Repeat([]byte("a"), 4096)
		reader := s3.NewMaxSizeReader(bytes.NewReader(input), 1024)
		_, err := io.ReadAll(reader)
		assert.Error(t, err)
		assert.True(t, errors.As(err, &s3.ErrReachLimitType))
	})
}
