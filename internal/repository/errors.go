// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as services
// and handlers to distinguish between different failure scenarios without
// inspecting driver errors.
package repository

import "errors"

// ErrConflict is returned when a write cannot be applied because of the
// current state of the row, such as an order status change that the state
// machine does not allow.  Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrUnknownProduct is returned when an offer or pack lists a product id
// that does not exist.
var ErrUnknownProduct = errors.New("unknown product")

// ErrOutOfStock is returned when an order targets a product whose limited
// stock counter has reached zero.
var ErrOutOfStock = errors.New("out of stock")
