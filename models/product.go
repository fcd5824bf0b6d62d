package models

// Product is one catalog entry. The catalog is loaded once at startup and
// is read-only afterwards; the cart copies Name and Price at add time and
// never reads the catalog again.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
