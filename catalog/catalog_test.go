package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeProducts(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeProducts(t, `[
		{"id": "mug-1", "name": "Mug", "price": 9.99},
		{"id": "tee-2", "name": "Tee", "price": 19.50}
	]`)

	c, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	p, ok := c.Get("tee-2")
	require.True(t, ok)
	assert.Equal(t, "Tee", p.Name)
	assert.Equal(t, 19.50, p.Price)

	_, ok = c.Get("ghost")
	assert.False(t, ok)

	// File order preserved.
	products := c.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "mug-1", products[0].ID)
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := writeProducts(t, `[
		{"id": "mug-1", "name": "Mug", "price": 9.99},
		{"id": "mug-1", "name": "Other Mug", "price": 5.00}
	]`)

	_, err := Load(path, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadRejectsMissingID(t *testing.T) {
	path := writeProducts(t, `[{"name": "Mug", "price": 9.99}]`)

	_, err := Load(path, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop())
	assert.Error(t, err)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Red Mug", "red-mug"},
		{"red-mug", "red-mug"}, // collides with the above
		{"  Cozy   Winter  Tee ", "cozy-winter-tee"},
		{"Mug", "mug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.name), tt.name)
	}
}
