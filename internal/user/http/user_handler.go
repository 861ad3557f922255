// Package http provides HTTP handlers for user-related operations.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/useradmin/internal/httputil"
	"github.com/allisson/useradmin/internal/mediator"
	"github.com/allisson/useradmin/internal/pagination"
	"github.com/allisson/useradmin/internal/user/http/dto"
	"github.com/allisson/useradmin/internal/user/usecase"
)

// UserHandler exposes the user commands and queries over HTTP.
type UserHandler struct {
	mediator *mediator.Mediator
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(m *mediator.Mediator, logger *slog.Logger) *UserHandler {
	return &UserHandler{mediator: m, logger: logger}
}

// RegisterRoutes mounts the user routes on group.
func (h *UserHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.ListUsers)
	group.POST("", h.CreateUser)
	group.GET("/:id", h.GetUser)
	group.PUT("/:id", h.UpdateUser)
	group.DELETE("/:id", h.DeleteUser)
	group.POST("/:id/reset-password", h.ResetPassword)
}

// ListUsers handles GET /users?page&pageSize&group&username. The group
// parameter may be repeated.
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	result, err := mediator.Send[usecase.GetUsersQuery, pagination.PagedResult[usecase.UserDTO]](
		c.Request.Context(),
		h.mediator,
		usecase.GetUsersQuery{
			Page:     page,
			PageSize: pageSize,
			Groups:   c.QueryArray("group"),
			Username: c.Query("username"),
		},
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser handles GET /users/{id}.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	user, err := mediator.Send[usecase.GetUserByIDQuery, usecase.UserDTO](
		c.Request.Context(), h.mediator, usecase.GetUserByIDQuery{ID: id},
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /users and answers 201 with a relative Location.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	user, err := mediator.Send[usecase.CreateUserCommand, usecase.UserDTO](
		c.Request.Context(), h.mediator, dto.ToCreateUserCommand(req),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Location", fmt.Sprintf("users/%d", user.ID))
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /users/{id}.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	user, err := mediator.Send[usecase.UpdateUserCommand, usecase.UserDTO](
		c.Request.Context(), h.mediator, dto.ToUpdateUserCommand(id, req),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{id}.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	_, err := mediator.Send[usecase.DeleteUserCommand, mediator.Unit](
		c.Request.Context(), h.mediator, usecase.DeleteUserCommand{ID: id},
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ResetPassword handles POST /users/{id}/reset-password.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	_, err := mediator.Send[usecase.ResetUserPasswordCommand, mediator.Unit](
		c.Request.Context(), h.mediator, usecase.ResetUserPasswordCommand{ID: id},
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

var errInvalidID = errors.New("invalid id parameter: must be a positive integer")

// parseID reads the id path parameter, writing a 400 problem when it is not a
// positive integer.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.HandleBadRequestGin(c, errInvalidID, h.logger)
		return 0, false
	}
	return id, true
}
