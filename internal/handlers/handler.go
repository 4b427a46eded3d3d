package handlers

import (
	"time"

	_ "tasker/docs"
	"tasker/internal/logger"
	"tasker/internal/service"
	"tasker/internal/web"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options configures the session cookie written by the handler.
type Options struct {
	SessionTTL   time.Duration
	SecureCookie bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies. log may be nil.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = service.DefaultSessionTTL
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID, h.requestLogger, h.sessionMiddleware)
	router.SetHTMLTemplate(web.Templates())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerPageRoutes(router)
	h.registerAuthRoutes(router)
	h.registerTaskRoutes(router)

	return router
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.indexPage)
	r.GET("/login", h.loginPage)
	r.GET("/register", h.registerPage)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.POST("/login", h.login)
	r.POST("/register", h.register)
	r.POST("/logout", h.logout)
}

func (h *Handler) registerTaskRoutes(r *gin.Engine) {
	tasks := r.Group("/tasks", h.requireLogin)
	{
		tasks.GET("", h.listActiveTasks)
		tasks.GET("/completed", h.listCompletedTasks)
		tasks.POST("", h.createTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.PUT("/:id/complete", h.completeTask)
		tasks.DELETE("/:id", h.deleteTask)

		tasks.GET("/events", h.listEvents)
		// Body-less upgrade; streams the active list
		tasks.GET("/ws", h.wsConnect)
	}
}
