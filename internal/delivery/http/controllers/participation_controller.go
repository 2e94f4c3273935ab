package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"cheerup/internal/delivery/http/helpers"
	"cheerup/internal/delivery/http/middleware"
	"cheerup/internal/domain"
)

type ParticipationController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService) *ParticipationController {
	return &ParticipationController{
		Logger:  logger,
		Service: svc,
	}
}

// ToggleJoin godoc
// @Summary Toggle the caller's join request
// @Description Creates a pending request on first call; afterwards toggles pending↔withdrawn, and re-enters rejected or removed rows into pending. Approved rows are not changed by the requester.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the join request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: event_unavailable"
// @Router /events/{eventID}/toggle-join [post]
func (c *ParticipationController) ToggleJoin(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	join, err := c.Service.ToggleJoin(r.Context(), eventID, userID)
	if err != nil {
		c.writeTransitionError(w, r, err, "as the event creator, you cannot join your own event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, join)
}

// Approve godoc
// @Summary Approve a pending join request
// @Description Creator only. Commits pending→approved unless the event is full; a full event returns 200 with a warning and the row stays pending so the approval can be retried later.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param userID path string true "Target user ID"
// @Success 200 {object} helpers.APIResponse "data contains the approval result; warning set when capacity is reached"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: event_unavailable"
// @Router /events/{eventID}/approve/{userID} [post]
func (c *ParticipationController) Approve(w http.ResponseWriter, r *http.Request) {
	eventID, targetID, callerID, ok := c.transitionParams(w, r)
	if !ok {
		return
	}
	result, err := c.Service.Approve(r.Context(), eventID, callerID, targetID)
	if err != nil {
		c.writeTransitionError(w, r, err, "only the event creator can approve requests")
		return
	}
	if result.Outcome == domain.OutcomeCapacityReached {
		helpers.WriteJSONWarning(w, http.StatusOK, result, "the event has reached its capacity")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// Reject godoc
// @Summary Reject a pending join request
// @Description Creator only. Commits pending→rejected; a row in any other state is left unchanged.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param userID path string true "Target user ID"
// @Success 200 {object} helpers.APIResponse "data contains the join request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/reject/{userID} [post]
func (c *ParticipationController) Reject(w http.ResponseWriter, r *http.Request) {
	eventID, targetID, callerID, ok := c.transitionParams(w, r)
	if !ok {
		return
	}
	join, err := c.Service.Reject(r.Context(), eventID, callerID, targetID)
	if err != nil {
		c.writeTransitionError(w, r, err, "only the event creator can reject requests")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, join)
}

// Remove godoc
// @Summary Remove an approved participant
// @Description Creator only. Commits approved→removed, freeing one capacity slot.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param userID path string true "Target user ID"
// @Success 200 {object} helpers.APIResponse "data contains the join request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/remove/{userID} [post]
func (c *ParticipationController) Remove(w http.ResponseWriter, r *http.Request) {
	eventID, targetID, callerID, ok := c.transitionParams(w, r)
	if !ok {
		return
	}
	join, err := c.Service.Remove(r.Context(), eventID, callerID, targetID)
	if err != nil {
		c.writeTransitionError(w, r, err, "only the event creator can remove participants")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, join)
}

func (c *ParticipationController) transitionParams(w http.ResponseWriter, r *http.Request) (eventID, targetID, callerID string, ok bool) {
	eventID = r.PathValue("eventID")
	targetID = r.PathValue("userID")
	if eventID == "" || targetID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID or userID")
		return "", "", "", false
	}
	callerID, authed := middleware.UserIDFromContext(r.Context())
	if !authed {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", "", false
	}
	return eventID, targetID, callerID, true
}

func (c *ParticipationController) writeTransitionError(w http.ResponseWriter, r *http.Request, err error, forbiddenMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event or request not found")
	case errors.Is(err, domain.ErrEventUnavailable):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeEventUnavailable, "event is no longer available")
	case errors.Is(err, domain.ErrSelfJoinForbidden), errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, forbiddenMsg)
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
