package domain

import "errors"

var (
	// ErrCatalogLoad is returned when the catalog source is unreachable or returns malformed data
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrProductNotFound is returned when a product id does not resolve in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCompareLimitExceeded is returned when adding to a full compare set
	ErrCompareLimitExceeded = errors.New("compare supports up to 3 items")

	// ErrCartEmpty is returned when checking out an empty cart
	ErrCartEmpty = errors.New("cart is empty")

	// ErrUnknownTool is returned when the assistant is asked for a tool it does not have
	ErrUnknownTool = errors.New("unknown assistant tool")

	// ErrKeyNotFound is returned when a key is absent from the key-value store
	ErrKeyNotFound = errors.New("key not found")

	// ErrPersistenceRead is logged when persisted session state cannot be read
	ErrPersistenceRead = errors.New("persisted state unreadable")

	// ErrPersistenceWrite is logged when session state cannot be written
	ErrPersistenceWrite = errors.New("persisted state write failed")
)
