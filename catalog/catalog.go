package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"goflare.io/storefront/models"
)

// Catalog is the read-only product list loaded once at startup. The cart
// never depends on catalog contents after an item is added.
type Catalog struct {
	products []*models.Product
	byID     map[string]*models.Product
}

// Load reads a JSON array of products from path. File order is preserved
// for display. Products with a duplicate or empty ID are rejected.
func Load(path string, logger *zap.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read product catalog: %w", err)
	}

	var products []*models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse product catalog: %w", err)
	}

	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has no id", p.Name)
		}
		if _, exists := byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		byID[p.ID] = p
	}

	logger.Info("Product catalog loaded",
		zap.String("path", path),
		zap.Int("products", len(products)))

	return &Catalog{products: products, byID: byID}, nil
}

// Get returns the product with the given ID.
func (c *Catalog) Get(id string) (*models.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Products returns the catalog in file order.
func (c *Catalog) Products() []*models.Product {
	return c.products
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Slug derives an identifier from a display name by lowercasing and
// collapsing whitespace runs to hyphens. Distinct names can collide
// ("Red Mug" and "red mug"), so catalog-provided IDs are preferred; this
// exists only for data sources that ship without ids.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
