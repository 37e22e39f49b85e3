package xlmacro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"the lord of the rings", "The Lord of the Rings"},
		{"MADE IN THE USA", "Made in the USA"},
		{"shipping to us and canada", "Shipping to US and Canada"},
		{"a tale of two cities", "A Tale of Two Cities"},
		{"what it is for", "What It Is For"},
		{"single", "Single"},
		{"", ""},
		{"double  space", "Double  Space"},
		{"cotton t shirt with pocket", "Cotton T Shirt with Pocket"},
		{"1st place", "1st Place"},
		{"cotton t-shirt with pocket", "Cotton T-shirt with Pocket"},
		{"black/white", "Black/white"},
		{"rock-n-roll", "Rock-n-roll"},
		{"o'neil jacket", "O'neil Jacket"},
		{"élan vital", "Élan Vital"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleCase(tt.in))
		})
	}
}

func TestReplaceCommasWithPipes(t *testing.T) {
	assert.Equal(t, "Red | Blue | Green", ReplaceCommasWithPipes("Red, Blue, Green"))
	assert.Equal(t, "S |M |L", ReplaceCommasWithPipes("S,M,L"))
	assert.Equal(t, "no commas", ReplaceCommasWithPipes("no commas"))
	assert.Equal(t, "", ReplaceCommasWithPipes(""))
}
