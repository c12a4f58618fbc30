package domain

import "github.com/shopspring/decimal"

// TaxRates resolves a state code to its tax rate (a fraction, 0.06 = 6%).
type TaxRates interface {
	TaxRateFor(state string) (decimal.Decimal, bool)
}

// ProductCatalog resolves a product type to its per-area costs.
type ProductCatalog interface {
	ProductPricing(productType string) (ProductPricing, bool)
}

// OrderRepository is the in-memory, date-indexed order store.
type OrderRepository interface {
	AddOrder(date OrderDate, customerName, state, productType string, area decimal.Decimal) (Order, error)
	EditAnOrder(date OrderDate, orderNumber int, edits OrderEdits) (Order, error)
	RemoveOrder(date OrderDate, orderNumber int) (Order, error)
	GetOrder(date OrderDate, orderNumber int) (Order, error)
	ListOrders(date OrderDate) []Order
	// Restore seeds buckets from a previously persisted state and moves the
	// order-number counter to at least next and past every restored number.
	Restore(buckets map[OrderDate][]Order, next int) error
}

// AuditLog mirrors repository mutations into one flat file per date.
type AuditLog interface {
	RecordAdd(date OrderDate, order Order) error
	RecordEdit(date OrderDate, order Order) error
	RecordRemove(date OrderDate, orderNumber int) error
	Export() error
	// Load parses every per-date file back into orders.
	Load() (map[OrderDate][]Order, error)
	// NextOrderNumber returns the persisted high-water mark: one past the
	// highest number ever recorded, removed orders included.
	NextOrderNumber() (int, error)
}

// ConfigLoader loads configuration from a directory.
type ConfigLoader interface {
	Load(dir string) (Config, error)
}
