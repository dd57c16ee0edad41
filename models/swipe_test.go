package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"neighborloop/models"
)

func TestSwipeDirectionValid(t *testing.T) {
	tests := []struct {
		name      string
		direction models.SwipeDirection
		want      bool
	}{
		{
			name:      "left是合法方向",
			direction: models.SwipeDirectionLeft,
			want:      true,
		},
		{
			name:      "right是合法方向",
			direction: models.SwipeDirectionRight,
			want:      true,
		},
		{
			name:      "up不是合法方向",
			direction: models.SwipeDirection("up"),
			want:      false,
		},
		{
			name:      "空字串不是合法方向",
			direction: models.SwipeDirection(""),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.direction.Valid())
		})
	}
}
