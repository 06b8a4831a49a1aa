package server

import (
	"ctchen222/todo-api/internal/api/controller"
	"ctchen222/todo-api/internal/auth"
	"ctchen222/todo-api/internal/i18n"
	"ctchen222/todo-api/internal/validator"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIPrefix is where the API is mounted.
const APIPrefix = "/api/v1"

// Server owns the router, which is assembled once in NewServer and never
// modified afterwards.
type Server struct {
	engine *gin.Engine
}

// NewServer builds the router for strategy. The logout route only exists when
// the strategy can revoke credentials.
func NewServer(strategy auth.Strategy, msgs *i18n.Messages, userController *controller.UserController, taskController *controller.TaskController) (*Server, error) {
	if err := validator.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validations: %w", err)
	}

	engine := gin.New()
	engine.Use(requestID(), requestLogger(), gin.Recovery())
	engine.HandleMethodNotAllowed = true

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := auth.Middleware(strategy, msgs)

	api := engine.Group(APIPrefix)
	api.POST("/register", userController.Register)
	api.POST("/login", userController.Login)
	if _, ok := strategy.(auth.Revoker); ok {
		api.POST("/logout", requireAuth, userController.Logout)
	}

	todos := api.Group("", requireAuth)
	todos.GET("/todos", taskController.List)
	todos.POST("/create_todo", taskController.Create)
	todos.PATCH("/edit_todo/:id", taskController.Edit)
	todos.PATCH("/edit_status_todo_on_done/:id", taskController.MarkDone)

	return &Server{engine: engine}, nil
}

// Engine returns the HTTP handler of the server.
func (s *Server) Engine() http.Handler {
	return s.engine
}
