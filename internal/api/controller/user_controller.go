package controller

import (
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/repository"
	"ctchen222/todo-api/internal/api/response"
	"ctchen222/todo-api/internal/api/service"
	"ctchen222/todo-api/internal/auth"
	"ctchen222/todo-api/internal/i18n"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserController handles user-related HTTP requests.
type UserController struct {
	userService service.UserService
	strategy    auth.Strategy
	msgs        *i18n.Messages
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService, strategy auth.Strategy, msgs *i18n.Messages) *UserController {
	return &UserController{
		userService: userService,
		strategy:    strategy,
		msgs:        msgs,
	}
}

// Register handles the user registration endpoint.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusUnprocessableEntity, uc.msgs.Get(i18n.InvalidBody, err.Error()))
		return
	}

	user, err := uc.userService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			err = response.NewError(http.StatusBadRequest, uc.msgs.Get(i18n.DuplicateUsername))
		case errors.Is(err, repository.ErrPasswordTooLong):
			err = response.NewError(http.StatusUnprocessableEntity, uc.msgs.Get(i18n.PasswordTooLong))
		}
		response.Fail(c, err, uc.msgs.Get(i18n.InternalError))
		return
	}

	resp := models.TokenResponse{Message: uc.msgs.Get(i18n.Registered)}
	if user.AuthToken != nil {
		resp.Token = *user.AuthToken
	}
	response.JSON(c, http.StatusOK, resp)
}

// Login handles the user login endpoint.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusUnprocessableEntity, uc.msgs.Get(i18n.InvalidBody, err.Error()))
		return
	}

	user, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			err = response.NewError(http.StatusBadRequest, uc.msgs.Get(i18n.InvalidCredentials))
		}
		response.Fail(c, err, uc.msgs.Get(i18n.InternalError))
		return
	}

	token, err := uc.strategy.Login(c.Writer, c.Request, user)
	if err != nil {
		response.Fail(c, err, uc.msgs.Get(i18n.InternalError))
		return
	}

	response.JSON(c, http.StatusOK, models.TokenResponse{
		Message: uc.msgs.Get(i18n.LoggedIn),
		Token:   token,
	})
}

// Logout handles the logout endpoint. It is only routed when the strategy
// can revoke credentials, and always behind the auth middleware.
func (uc *UserController) Logout(c *gin.Context) {
	revoker, ok := uc.strategy.(auth.Revoker)
	if !ok {
		response.Detail(c, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}

	if err := revoker.Logout(c.Writer, c.Request); err != nil {
		response.Fail(c, err, uc.msgs.Get(i18n.InternalError))
		return
	}
	response.Detail(c, http.StatusOK, uc.msgs.Get(i18n.LoggedOut))
}
