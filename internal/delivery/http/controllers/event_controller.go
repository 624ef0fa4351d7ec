package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"clubevents/internal/delivery/http/helpers"
	"clubevents/internal/delivery/http/middleware"
	"clubevents/internal/domain"
)

// NullableInt decodes a JSON number, numeric string, null, or "" (the last two
// as absent). Admin forms send an empty input as "".
type NullableInt struct {
	Value *int
}

func (n *NullableInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" || string(b) == `""` {
		n.Value = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("max_participants must be an integer")
	}
	n.Value = &v
	return nil
}

// NullableTime decodes an RFC 3339 timestamp, null, or "".
type NullableTime struct {
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" || string(b) == `""` {
		n.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return fmt.Errorf("registration_deadline must be an RFC 3339 timestamp")
	}
	n.Value = &t
	return nil
}

// EventRequest is the request body for POST /events and PUT /events/{id}.
// PUT replaces every field; omitted optional fields are cleared.
type EventRequest struct {
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Date                 time.Time    `json:"date"`
	Location             string       `json:"location"`
	CoverImageURL        *string      `json:"cover_image_url"`
	IsHidden             bool         `json:"is_hidden"`
	RegistrationDeadline NullableTime `json:"registration_deadline" swaggertype:"string" format:"date-time"`
	MaxParticipants      NullableInt  `json:"max_participants" swaggertype:"integer"`
}

func (req EventRequest) input() domain.EventInput {
	in := domain.EventInput{
		Title:                strings.TrimSpace(req.Title),
		Description:          strings.TrimSpace(req.Description),
		Date:                 req.Date,
		Location:             strings.TrimSpace(req.Location),
		IsHidden:             req.IsHidden,
		RegistrationDeadline: req.RegistrationDeadline.Value,
		MaxParticipants:      req.MaxParticipants.Value,
	}
	if req.CoverImageURL != nil {
		if s := strings.TrimSpace(*req.CoverImageURL); s != "" {
			in.CoverImageURL = &s
		}
	}
	return in
}

// EventSuccessResponse is the success envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.EventWithCount `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// EventListSuccessResponse is the success envelope for GET /events.
type EventListSuccessResponse struct {
	Data  []*domain.EventWithCount `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// eventIDFromPath writes 404 and returns false when the path id is not a UUID.
func eventIDFromPath(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if _, err := uuid.Parse(id); err != nil {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return "", false
	}
	return id, true
}

// ListEvents godoc
// @Summary List events
// @Description Anonymous callers get visible events only, without counts. Admins get every event, including hidden ones, each with its live registration count. Ordered by date ascending.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context(), middleware.IsAdmin(r.Context()))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its live registration count. Hidden events are returned too: anyone with the link can view and register.
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromPath(w, r, "id")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Admin only. max_participants must be a positive integer when set; null or "" means unlimited.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), req.input())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Replace an event
// @Description Admin only. Every field is replaced; send max_participants null to remove the cap.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromPath(w, r, "id")
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), id, req.input())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Admin only. Registrations for the event are removed with it.
// @Tags events
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromPath(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
