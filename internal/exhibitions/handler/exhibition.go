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

type ExhibitionHandler struct {
	service       service.ExhibitionService
	layoutService service.LayoutService
	log           *logger.Logger
}

func NewExhibitionHandler(svc service.ExhibitionService, layoutSvc service.LayoutService, log *logger.Logger) *ExhibitionHandler {
	return &ExhibitionHandler{
		service:       svc,
		layoutService: layoutSvc,
		log:           log,
	}
}

func (h *ExhibitionHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var exhibition model.Exhibition
	if err := json.NewDecoder(r.Body).Decode(&exhibition); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Create(r.Context(), &exhibition); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, exhibition)
}

func (h *ExhibitionHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	exhibition, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, exhibition)
}

func (h *ExhibitionHandler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	exhibition, err := h.service.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, exhibition)
}

func (h *ExhibitionHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	exhibitions, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, exhibitions, total, limit, int(offset))
}

func (h *ExhibitionHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.ExhibitionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	exhibition, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, exhibition)
}

func (h *ExhibitionHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ExhibitionHandler) SaveLayout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var layout model.Layout
	if err := json.NewDecoder(r.Body).Decode(&layout); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	saved, err := h.layoutService.Save(r.Context(), ps.ByName("id"), &layout)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, saved)
}

func (h *ExhibitionHandler) GetLayout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	layout, err := h.layoutService.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, layout)
}

func (h *ExhibitionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/exhibitions", h.Create)
	router.GET("/api/v1/exhibitions", h.GetAll)
	router.GET("/api/v1/exhibitions/id/:id", h.GetByID)
	router.GET("/api/v1/exhibitions/slug/:slug", h.GetBySlug)
	router.PATCH("/api/v1/exhibitions/id/:id", h.Update)
	router.DELETE("/api/v1/exhibitions/id/:id", h.Delete)
	router.PUT("/api/v1/exhibitions/id/:id/layout", h.SaveLayout)
	router.GET("/api/v1/exhibitions/id/:id/layout", h.GetLayout)
}
