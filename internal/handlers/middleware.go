package handlers

import (
	"net/http"
	"strings"
	"time"

	"todo_list/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userCtx         = "user"
	requestIDCtx    = "request_id"
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
	accessTokenArg  = "access_token"
)

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// userIdentity resolves the bearer token into the active user and stores it
// in the context. Every kind of failure produces the same 401.
func (h *Handler) userIdentity(allowQueryToken bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok && allowQueryToken {
			token = c.Query(accessTokenArg)
			ok = token != ""
		}
		if !ok {
			h.unauthorized(c, errCredentials, authFailureToken)
			return
		}

		user, err := h.services.ResolveUser(c.Request.Context(), token)
		if err != nil {
			h.respondError(c, err, "auth_resolve_user_failed")
			return
		}

		// store in Gin context
		c.Set(userCtx, user)
		c.Next()
	}
}

// currentUser returns the principal set by userIdentity.
func currentUser(c *gin.Context) models.User {
	u, _ := c.Get(userCtx)
	user, _ := u.(models.User)
	return user
}

func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}
	c.Set(requestIDCtx, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDCtx)
}

// accessLog logs every request once it has been served and feeds the request metrics.
func (h *Handler) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	elapsed := time.Since(start)

	status := c.Writer.Status()
	route := c.FullPath()
	h.metrics.ObserveRequest(c.Request.Method, route, status, elapsed)

	kv := []interface{}{
		"method", c.Request.Method,
		"route", route,
		"path", c.Request.URL.Path,
		"status", status,
		"latency", elapsed,
		"client_ip", c.ClientIP(),
		"request_id", requestIDFrom(c),
	}
	if status >= http.StatusInternalServerError {
		h.log.Warnw("http_request", kv...)
		return
	}
	h.log.Infow("http_request", kv...)
}

func (h *Handler) originAllowed(origin string) bool {
	for _, o := range h.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// cors answers preflight requests and decorates responses for allowed origins.
func (h *Handler) cors(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if origin == "" || !h.originAllowed(origin) {
		c.Next()
		return
	}

	hdr := c.Writer.Header()
	hdr.Set("Access-Control-Allow-Origin", origin)
	hdr.Set("Access-Control-Allow-Credentials", "true")
	hdr.Add("Vary", "Origin")

	if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
		allowHeaders := c.GetHeader("Access-Control-Request-Headers")
		if allowHeaders == "" {
			allowHeaders = "Authorization, Content-Type"
		}
		hdr.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", allowHeaders)
		hdr.Set("Access-Control-Max-Age", "600")
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
