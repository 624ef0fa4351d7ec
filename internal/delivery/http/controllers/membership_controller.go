package controllers

import (
	"log/slog"
	"net/http"

	"clubevents/internal/delivery/http/helpers"
	"clubevents/internal/domain"
)

// JoinStatusResponse reports whether the join form accepts applications.
type JoinStatusResponse struct {
	Enabled bool `json:"enabled"`
}

// JoinToggleRequest is the request body for PUT /settings/join-toggle.
type JoinToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// Validate implements Validator.
func (t JoinToggleRequest) Validate() []string {
	if t.Enabled == nil {
		return []string{"enabled is required"}
	}
	return nil
}

// ApplicationRequest is the request body for POST /settings/apply.
type ApplicationRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Major      string `json:"major"`
	Motivation string `json:"motivation"`
}

// ApplicationListResponse is the paginated body of GET /settings/applications.
type ApplicationListResponse struct {
	Items      []*domain.Application  `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type MembershipController struct {
	Logger  *slog.Logger
	Service domain.MembershipService
}

func NewMembershipController(logger *slog.Logger, svc domain.MembershipService) *MembershipController {
	return &MembershipController{
		Logger:  logger,
		Service: svc,
	}
}

// JoinStatus godoc
// @Summary Join form status
// @Tags settings
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.enabled"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings/join-status [get]
func (c *MembershipController) JoinStatus(w http.ResponseWriter, r *http.Request) {
	enabled, err := c.Service.JoinFormEnabled(r.Context())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, JoinStatusResponse{Enabled: enabled})
}

// ToggleJoinForm godoc
// @Summary Open or close the join form
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body JoinToggleRequest true "New state"
// @Success 200 {object} helpers.APIResponse "data.enabled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /settings/join-toggle [put]
func (c *MembershipController) ToggleJoinForm(w http.ResponseWriter, r *http.Request) {
	var req JoinToggleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	enabled, err := c.Service.SetJoinFormEnabled(r.Context(), *req.Enabled)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, JoinStatusResponse{Enabled: enabled})
}

// Apply godoc
// @Summary Apply to join the club
// @Tags settings
// @Accept json
// @Produce json
// @Param body body ApplicationRequest true "Application"
// @Success 201 {object} helpers.APIResponse "data contains the stored application"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or join_form_closed"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /settings/apply [post]
func (c *MembershipController) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplicationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	app, err := c.Service.Apply(r.Context(), domain.ApplicationInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Major:      req.Major,
		Motivation: req.Motivation,
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, app)
}

// ListApplications godoc
// @Summary List membership applications
// @Description Admin only. Newest first.
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data.items and data.pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /settings/applications [get]
func (c *MembershipController) ListApplications(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	apps, total, err := c.Service.ListApplications(r.Context(), params)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ApplicationListResponse{
		Items:      apps,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
