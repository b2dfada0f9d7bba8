package wb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhotoURL(t *testing.T) {
	tests := []struct {
		name string
		nmID int64
		want string
	}{
		{
			name: "first basket",
			nmID: 14300000,
			want: "https://basket-01.wbbasket.ru/vol143/part14300/14300000/images/tm/1.webp",
		},
		{
			name: "second basket lower bound",
			nmID: 14400000,
			want: "https://basket-02.wbbasket.ru/vol144/part14400/14400000/images/tm/1.webp",
		},
		{
			name: "mid table",
			nmID: 200000000,
			want: "https://basket-14.wbbasket.ru/vol2000/part200000/200000000/images/tm/1.webp",
		},
		{
			name: "beyond table falls back",
			nmID: 400000000,
			want: "https://basket-21.wbbasket.ru/vol4000/part400000/400000000/images/tm/1.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhotoURL(tt.nmID))
		})
	}
}

func TestPhotoURLZeroID(t *testing.T) {
	assert.Empty(t, PhotoURL(0))
	assert.Empty(t, PhotoURL(-5))
}
