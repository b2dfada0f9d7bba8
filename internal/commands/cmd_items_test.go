package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/quill/internal/core/item"
)

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{
			name: "short passes through",
			in:   "Wool socks",
			max:  32,
			want: "Wool socks",
		},
		{
			name: "exact length passes through",
			in:   "abcde",
			max:  5,
			want: "abcde",
		},
		{
			name: "long text truncated with ellipsis",
			in:   "This feedback goes on and on about the product",
			max:  20,
			want: "This feedback goes …",
		},
		{
			name: "newlines collapsed to spaces",
			in:   "great\nsocks\nwould buy again",
			max:  60,
			want: "great socks would buy again",
		},
		{
			name: "cyrillic counted in runes not bytes",
			in:   "Отличные носки, очень тёплые",
			max:  10,
			want: "Отличные …",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateCell(tt.in, tt.max))
		})
	}
}

func TestBuildItemInfo(t *testing.T) {
	it := item.Item{
		ID:          "fb-1",
		Category:    item.CategoryFeedbacks,
		Text:        "Great quality",
		Rating:      5,
		CreatedDate: "2024-03-01T10:00:00Z",
		Product:     item.Product{NmID: 123456, Name: "Wool socks"},
		UserName:    "Anna",
	}

	info := buildItemInfo(it)

	assert.Equal(t, "fb-1", info.ID)
	assert.Equal(t, "feedbacks", info.Category)
	assert.Equal(t, 5, info.Rating)
	assert.Equal(t, "Wool socks", info.Product)
	assert.Equal(t, int64(123456), info.NmID)
	assert.Equal(t, "2024-03-01T10:00:00Z", info.Date)
	assert.Equal(t, "Anna", info.User)
}
