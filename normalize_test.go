package xlmacro

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo"},
		{"Photo Final.JPG", "photo-final"},
		{"images/2024/red_shoe.png", "red-shoe"},
		{`C:\Users\me\Desktop\Red Shoe (1).png`, "red-shoe-1"},
		{"https://x.com/wp-content/uploads/2024/01/blue-hat-300x300.webp", "blue-hat-300x300"},
		{"archive.tar.gz", "archive-tar"},
		{"--weird__name--.jpeg", "weird-name"},
		{"  spaced name  ", "spaced-name"},
		{"Café Crème.jpg", "caf-cr-me"},
		{"no-extension", "no-extension"},
		{".jpg", ""},
		{"", ""},
		{"   ", ""},
		{"folder/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"photo.jpg", "A.B.C", "x/y\\z.png", "Hello, World!", "  -a-  ", "ÄÖÜ.gif",
		"image.final.v2.JPG", "slug-already-normal", "", "...", "a..b",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}

func TestNormalize_OutputAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)
	inputs := []string{
		"My Photo (Final).JPG", "__--__", "100% cotton.png", "tab\tseparated.jpg",
		"emoji 😀 shot.png", "UPPER.lower.Mixed", "trailing-.png", "-leading.png",
	}
	for _, in := range inputs {
		assert.Regexp(t, valid, Normalize(in), in)
	}
}

func TestURLFilename(t *testing.T) {
	filename, basename := urlFilename("https://shop.test/wp-content/uploads/2024/05/red-shoe.png")
	assert.Equal(t, "red-shoe.png", filename)
	assert.Equal(t, "red-shoe", basename)

	filename, basename = urlFilename("no-slashes.jpg")
	assert.Equal(t, "no-slashes.jpg", filename)
	assert.Equal(t, "no-slashes", basename)
}
