package domain

import "errors"

var (
	// ErrCatalogEmpty is returned when the menu index has no entries
	ErrCatalogEmpty = errors.New("catalog index is empty")

	// ErrCatalogUnavailable is returned when the menu index cannot be loaded
	ErrCatalogUnavailable = errors.New("catalog index unavailable")

	// ErrInvalidOrder is returned when an order payload has no valid items
	ErrInvalidOrder = errors.New("order has no valid items")

	// ErrPOSAuthFailure is returned when POS authentication fails
	ErrPOSAuthFailure = errors.New("POS authentication failed")

	// ErrPOSAPIFailure is returned when a POS API request fails
	ErrPOSAPIFailure = errors.New("POS API request failed")
)
