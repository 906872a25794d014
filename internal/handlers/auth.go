package handlers

import (
	"net/http"

	"todo_list"
	"todo_list/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const tokenTypeBearer = "bearer"

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50" example:"alice"`
	Email    string `json:"email" binding:"required,email" example:"alice@x.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"password123"`
}

// loginForm is the OAuth2 password-flow form of POST /api/auth/login.
type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New account"
// @Success      201   {object}  models.User
// @Failure      400   {object}  todo_list.ErrorResponse  "malformed body or username/email taken"
// @Failure      422   {object}  todo_list.ErrorResponse
// @Router       /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.SignUp(c.Request.Context(), service.SignUpInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		h.log.Infow("auth_register_failed", "username", input.Username, "err", err)
		h.respondError(c, err, "auth_register_error", "username", input.Username)
		return
	}

	h.log.Infow("auth_registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, user)
}

// @Summary      Log in
// @Description  OAuth2 password flow; returns a bearer token.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  todo_list.TokenResponse
// @Failure      401       {object}  todo_list.ErrorResponse
// @Failure      422       {object}  todo_list.ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginForm
	if ok := h.bindOrUnprocessable(c, &input, binding.FormPost, bodyField); !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.log.Infow("auth_login_failed", "username", input.Username, "err", err)
		h.respondError(c, err, "auth_login_error", "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, todo_list.TokenResponse{
		AccessToken: token.Token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(token.ExpiresIn.Seconds()),
	})
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  todo_list.ErrorResponse
// @Router       /api/auth/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}
