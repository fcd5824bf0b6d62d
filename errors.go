package storefront

import "fmt"

// UnknownProductError is returned by AddProduct for an ID the catalog does
// not contain.
type UnknownProductError struct {
	ID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("storefront: unknown product %q", e.ID)
}
