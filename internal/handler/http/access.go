package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/access"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/response"
)

type AccessHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	SetMode(w http.ResponseWriter, r *http.Request)
	ListAllowedIPs(w http.ResponseWriter, r *http.Request)
	AddAllowedIP(w http.ResponseWriter, r *http.Request)
	RemoveAllowedIP(w http.ResponseWriter, r *http.Request)
}

type accessHandlerImpl struct {
	accessService access.AccessService
}

func NewAccessHandler(accessService access.AccessService) AccessHandler {
	return &accessHandlerImpl{
		accessService: accessService,
	}
}

func (h *accessHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.accessService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, settings)
}

func (h *accessHandlerImpl) SetMode(w http.ResponseWriter, r *http.Request) {
	var req access.SetModeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	settings, err := h.accessService.SetMode(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Access mode updated", settings)
}

func (h *accessHandlerImpl) ListAllowedIPs(w http.ResponseWriter, r *http.Request) {
	ips, err := h.accessService.ListAllowedIPs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, ips)
}

func (h *accessHandlerImpl) AddAllowedIP(w http.ResponseWriter, r *http.Request) {
	var req access.CreateAllowedIPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ip, err := h.accessService.AddAllowedIP(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Allowed IP added", ip)
}

func (h *accessHandlerImpl) RemoveAllowedIP(w http.ResponseWriter, r *http.Request) {
	if err := h.accessService.RemoveAllowedIP(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Allowed IP removed", nil)
}
