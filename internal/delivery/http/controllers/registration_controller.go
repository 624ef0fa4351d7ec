package controllers

import (
	"log/slog"
	"net/http"

	"clubevents/internal/delivery/http/helpers"
	"clubevents/internal/domain"
)

// RegistrationRequest is the request body for POST /registrations.
type RegistrationRequest struct {
	EventID          string  `json:"event_id"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	Phone            *string `json:"phone"`
	SchoolName       *string `json:"school_name"`
	AgreedToPolicies bool    `json:"agreed_to_policies"`
}

// RegistrationSuccessResponse is the success envelope for POST /registrations (201).
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RegistrationListSuccessResponse is the success envelope for GET /registrations/{eventId}.
type RegistrationListSuccessResponse struct {
	Data  []*domain.Registration `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitRegistration godoc
// @Summary Register for an event
// @Description Public. Checks run in order: required fields and policy consent, event exists, deadline, capacity. The same email can register for an event only once.
// @Tags registrations
// @Accept json
// @Produce json
// @Param registration body RegistrationRequest true "Registration data"
// @Success 201 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, registration_closed, capacity_reached or already_registered"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [post]
func (c *RegistrationController) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.SubmitRegistration(r.Context(), domain.RegistrationInput{
		EventID:          req.EventID,
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		SchoolName:       req.SchoolName,
		AgreedToPolicies: req.AgreedToPolicies,
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// ListRegistrations godoc
// @Summary List an event's registrations
// @Description Admin only. Newest first.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RegistrationListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{eventId} [get]
func (c *RegistrationController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r, "eventId")
	if !ok {
		return
	}
	regs, err := c.Service.ListRegistrations(r.Context(), eventID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
