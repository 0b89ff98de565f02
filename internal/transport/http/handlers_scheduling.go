package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agendo/internal/scheduling"
	dErrors "agendo/pkg/domain-errors"
)

type SchedulingHandler struct {
	service *scheduling.Service
}

func NewSchedulingHandler(service *scheduling.Service) *SchedulingHandler {
	return &SchedulingHandler{service: service}
}

func (h *SchedulingHandler) Register(r chi.Router) {
	r.Route("/api/clients", func(r chi.Router) {
		r.Post("/", h.handleCreateClient)
		r.Get("/", h.handleListClients)
		r.Put("/{id}", h.handleUpdateClient)
		r.Delete("/{id}", h.handleDeleteClient)
	})
	r.Route("/api/appointments", func(r chi.Router) {
		r.Post("/", h.handleCreateAppointment)
		r.Get("/", h.handleListAppointments)
		r.Post("/{id}/cancel", h.handleCancelAppointment)
	})
}

type clientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *SchedulingHandler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	client, err := h.service.CreateClient(r.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, client)
}

func (h *SchedulingHandler) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, clients)
}

func (h *SchedulingHandler) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid client id"))
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	client, err := h.service.UpdateClient(r.Context(), id, req.Name, req.Email, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, client)
}

func (h *SchedulingHandler) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid client id"))
		return
	}

	if err := h.service.DeleteClient(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type appointmentRequest struct {
	ClientID uuid.UUID `json:"clientId"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Notes    string    `json:"notes"`
}

func (h *SchedulingHandler) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	appointment, err := h.service.CreateAppointment(r.Context(), req.ClientID, req.StartsAt, req.EndsAt, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, appointment)
}

func (h *SchedulingHandler) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.ListAppointments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, appointments)
}

func (h *SchedulingHandler) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid appointment id"))
		return
	}

	appointment, err := h.service.CancelAppointment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, appointment)
}
