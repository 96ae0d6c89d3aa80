package hostapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/j-stam/goshell/store"
)

// ProductBucket is where products are stored.
const ProductBucket = "catalog_product"

// ErrProductNotFound is returned for unknown SKUs.
var ErrProductNotFound = errors.New("hostapp: product not found")

// ErrSecureArea is returned when deleting outside the secure area.
var ErrSecureArea = errors.New("hostapp: delete operation is forbidden for current area")

// Product is one catalog entry.
type Product struct {
	SKU     string `json:"sku"`
	Name    string `json:"name"`
	Price   int64  `json:"price"` // minor units
	Qty     int    `json:"qty"`
	Enabled bool   `json:"enabled"`
}

// ProductRepository reads and writes products in the store.
type ProductRepository struct {
	conn     *store.Connection
	registry *Registry
}

// NewProductRepository returns a repository on conn. Deletes are allowed only
// while registry has the secure area flag set.
func NewProductRepository(conn *store.Connection, registry *Registry) *ProductRepository {
	return &ProductRepository{conn: conn, registry: registry}
}

// Save inserts or replaces p.
func (r *ProductRepository) Save(p Product) error {
	if strings.TrimSpace(p.SKU) == "" {
		return errors.New("hostapp: product sku is required")
	}
	return r.conn.PutJSON(ProductBucket, p.SKU, p)
}

// Get loads the product with sku.
func (r *ProductRepository) Get(sku string) (Product, error) {
	var p Product
	err := r.conn.GetJSON(ProductBucket, sku, &p)
	if errors.Is(err, store.ErrNotFound) {
		return Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, sku)
	}
	return p, err
}

// List returns every product ordered by SKU.
func (r *ProductRepository) List() ([]Product, error) {
	var out []Product
	err := r.conn.ForEach(ProductBucket, func(key string, raw []byte) error {
		var p Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("hostapp: decode product %q: %w", key, err)
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// Delete removes the product with sku.
func (r *ProductRepository) Delete(sku string) error {
	if r.registry == nil || !r.registry.IsSecureArea() {
		return ErrSecureArea
	}
	return r.conn.Delete(ProductBucket, sku)
}
