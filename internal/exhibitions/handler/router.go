package handler

import (
	"github.com/julienschmidt/httprouter"
)

// Router bundles the exhibition and stall type handlers behind a single
// route registrar for the application server.
type Router struct {
	exhibitions *ExhibitionHandler
	stallTypes  *StallTypeHandler
}

func NewRouter(exhibitions *ExhibitionHandler, stallTypes *StallTypeHandler) *Router {
	return &Router{
		exhibitions: exhibitions,
		stallTypes:  stallTypes,
	}
}

func (r *Router) RegisterRoutes(router *httprouter.Router) {
	r.exhibitions.RegisterRoutes(router)
	r.stallTypes.RegisterRoutes(router)
}
