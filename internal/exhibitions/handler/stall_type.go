package handler

import (
	"encoding/json"
	"net/http"

	"expostall/internal/exhibitions/service"
	httputil "expostall/pkg/http"
	"expostall/pkg/logger"
	"expostall/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type StallTypeHandler struct {
	service service.StallTypeService
	log     *logger.Logger
}

func NewStallTypeHandler(svc service.StallTypeService, log *logger.Logger) *StallTypeHandler {
	return &StallTypeHandler{
		service: svc,
		log:     log,
	}
}

func (h *StallTypeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var stallType model.StallType
	if err := json.NewDecoder(r.Body).Decode(&stallType); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Create(r.Context(), &stallType); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, stallType)
}

func (h *StallTypeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stallType, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, stallType)
}

func (h *StallTypeHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stallTypes, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, stallTypes, total, limit, int(offset))
}

func (h *StallTypeHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.StallTypeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	stallType, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, stallType)
}

func (h *StallTypeHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *StallTypeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/stall-types", h.Create)
	router.GET("/api/v1/stall-types", h.GetAll)
	router.GET("/api/v1/stall-types/id/:id", h.GetByID)
	router.PATCH("/api/v1/stall-types/id/:id", h.Update)
	router.DELETE("/api/v1/stall-types/id/:id", h.Delete)
}
