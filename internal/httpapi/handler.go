// Package httpapi exposes the inventory service over REST. Validation of
// request shapes happens here; business rules stay in the inventory package.
package httpapi

import (
	"github.com/rs/zerolog"

	"github.com/stockroomhq/stockroom/inventory"
)

// Handler holds the dependencies shared by every route.
type Handler struct {
	svc *inventory.Service
	log zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc *inventory.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}
