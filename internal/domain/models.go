// internal/domain/models.go
package domain

// Product is a single inventory row owned by the product store.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Warehouse string `json:"warehouse"`
	Stock     int    `json:"stock"`
	Demand    int    `json:"demand"`
}

// ProductWithStatus is a product annotated with its derived health status.
// It is recomputed on every read and never stored.
type ProductWithStatus struct {
	Product
	Status Status `json:"status"`
}

// ProductUpdate is a merge patch: nil fields are left untouched.
type ProductUpdate struct {
	Demand    *int    `json:"demand,omitempty" validate:"omitempty,gt=0"`
	Stock     *int    `json:"stock,omitempty" validate:"omitempty,gt=0"`
	Warehouse *string `json:"warehouse,omitempty" validate:"omitempty,warehouse"`
}

// IsEmpty reports whether the patch carries no field at all.
func (u ProductUpdate) IsEmpty() bool {
	return u.Demand == nil && u.Stock == nil && u.Warehouse == nil
}

// StockTransfer adds Delta to the current stock (negative values remove
// stock) and optionally moves the product to another warehouse.
type StockTransfer struct {
	Delta     int    `json:"delta" validate:"ne=0"`
	Warehouse string `json:"warehouse,omitempty" validate:"omitempty,warehouse"`
}

// Snapshot is a consistent copy of the store together with the revision it
// was taken at. The revision changes on every successful mutation and only
// means something together with StoreID, which is unique per store lifetime.
type Snapshot struct {
	StoreID  string    `json:"store_id"`
	Products []Product `json:"products"`
	Revision uint64    `json:"revision"`
}

// IntPtr is a small helper for building patches.
func IntPtr(v int) *int { return &v }

// StringPtr is a small helper for building patches.
func StringPtr(v string) *string { return &v }
