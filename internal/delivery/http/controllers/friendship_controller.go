package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"cheerup/internal/delivery/http/helpers"
	"cheerup/internal/delivery/http/middleware"
	"cheerup/internal/domain"
)

type FriendshipController struct {
	Logger  *slog.Logger
	Service domain.FriendshipService
}

func NewFriendshipController(logger *slog.Logger, svc domain.FriendshipService) *FriendshipController {
	return &FriendshipController{
		Logger:  logger,
		Service: svc,
	}
}

// ToggleRequest godoc
// @Summary Toggle a friend request towards a user
// @Description Creates the caller's pending request on first call and toggles it afterwards. Only the caller's own directed row is touched.
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param userID path string true "Other user ID"
// @Success 200 {object} helpers.APIResponse "data contains the friend request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /profiles/{userID}/toggle-join [post]
func (c *FriendshipController) ToggleRequest(w http.ResponseWriter, r *http.Request) {
	otherID, callerID, ok := c.params(w, r)
	if !ok {
		return
	}
	req, err := c.Service.ToggleRequest(r.Context(), callerID, otherID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, req)
}

// Approve godoc
// @Summary Accept a pending friend request
// @Description Accepts the request the other user sent to the caller. Both directed rows end up approved in the same transaction.
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param userID path string true "Requester user ID"
// @Success 200 {object} helpers.APIResponse "data contains the friend request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /profiles/{userID}/approve [post]
func (c *FriendshipController) Approve(w http.ResponseWriter, r *http.Request) {
	otherID, callerID, ok := c.params(w, r)
	if !ok {
		return
	}
	req, err := c.Service.Approve(r.Context(), callerID, otherID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, req)
}

// Reject godoc
// @Summary Decline a pending friend request
// @Description Declines the request the other user sent to the caller. Both directed rows end up rejected in the same transaction.
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param userID path string true "Requester user ID"
// @Success 200 {object} helpers.APIResponse "data contains the friend request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /profiles/{userID}/reject [post]
func (c *FriendshipController) Reject(w http.ResponseWriter, r *http.Request) {
	otherID, callerID, ok := c.params(w, r)
	if !ok {
		return
	}
	req, err := c.Service.Reject(r.Context(), callerID, otherID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, req)
}

// Remove godoc
// @Summary End a friendship
// @Description Removes an approved friendship from either side. Both directed rows end up removed in the same transaction.
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param userID path string true "Other user ID"
// @Success 200 {object} helpers.APIResponse "data contains the friend request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /profiles/{userID}/remove [post]
func (c *FriendshipController) Remove(w http.ResponseWriter, r *http.Request) {
	otherID, callerID, ok := c.params(w, r)
	if !ok {
		return
	}
	req, err := c.Service.Remove(r.Context(), callerID, otherID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, req)
}

// ListIncoming godoc
// @Summary List incoming pending friend requests
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the pending requests"
// @Router /friends/requests [get]
func (c *FriendshipController) ListIncoming(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reqs, err := c.Service.ListIncomingPending(r.Context(), callerID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reqs)
}

func (c *FriendshipController) params(w http.ResponseWriter, r *http.Request) (otherID, callerID string, ok bool) {
	otherID = r.PathValue("userID")
	if otherID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return "", "", false
	}
	callerID, authed := middleware.UserIDFromContext(r.Context())
	if !authed {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", false
	}
	return otherID, callerID, true
}

func (c *FriendshipController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSelfFriendForbidden):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "cannot send a friend request to yourself")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user or friend request not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
