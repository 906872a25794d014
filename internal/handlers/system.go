package handlers

import (
	"net/http"

	"todo_list"

	"github.com/gin-gonic/gin"
)

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	welcomeMessage    = "Welcome to the To-Do List API"
)

// @Summary      Welcome message
// @Tags         system
// @Produce      json
// @Success      200  {object}  todo_list.MessageResponse
// @Router       / [get]
func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, todo_list.MessageResponse{Message: welcomeMessage})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  todo_list.StatusResponse
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, todo_list.StatusResponse{Status: statusOK})
}

// @Summary      Readiness check
// @Description  Pings the database.
// @Tags         system
// @Produce      json
// @Success      200  {object}  todo_list.StatusResponse
// @Failure      503  {object}  todo_list.StatusResponse
// @Router       /ready [get]
func (h *Handler) readiness(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			h.log.Warnw("readiness_check_failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, todo_list.StatusResponse{Status: statusUnavailable})
			return
		}
	}
	c.JSON(http.StatusOK, todo_list.StatusResponse{Status: statusOK})
}
