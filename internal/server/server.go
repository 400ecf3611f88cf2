package server

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tracker/internal/models"
	"tracker/internal/query"
	"tracker/internal/repository"
)

// Options tune the HTTP surface.
type Options struct {
	// StaticDir holds a built frontend; empty means API only.
	StaticDir string
	// CORSOrigins lists allowed origins; empty allows any.
	CORSOrigins []string
}

// Server provides HTTP handlers for the tracker API.
type Server struct {
	engine    *gin.Engine
	repo      *repository.Repository
	logger    logrus.FieldLogger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(repo *repository.Repository, logger logrus.FieldLogger, opts Options) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/health"))
	router.Use(cors(opts.CORSOrigins))

	srv := &Server{
		engine:    router,
		repo:      repo,
		logger:    logger,
		staticDir: opts.StaticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET("/team-members", s.handleTeamMembers)
			tasks.GET("/overdue", s.handleOverdueTasks)
			tasks.GET("/status/:status", s.handleTasksByStatus)
			tasks.GET("/:id", s.handleGetTask)
			tasks.PUT("/:id", s.handleUpdateTask)
			tasks.DELETE("/:id", s.handleDeleteTask)
			tasks.POST("/:id/complete", s.handleCompleteTask)
			tasks.PUT("/:id/status", s.handleChangeTaskStatus)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.POST("", s.handleCreateProject)
			projects.GET("/active/list", s.handleActiveProjects)
			projects.GET("/member/:user", s.handleProjectsByMember)
			projects.GET("/:id", s.handleGetProject)
			projects.PUT("/:id", s.handleUpdateProject)
			projects.DELETE("/:id", s.handleDeleteProject)
			projects.POST("/:id/members", s.handleAddTeamMember)
			projects.DELETE("/:id/members/:user", s.handleRemoveTeamMember)
		}

		users := api.Group("/users")
		{
			users.GET("", s.handleListUsers)
			users.POST("", s.handleCreateUser)
			users.GET("/active/list", s.handleActiveUsers)
			users.GET("/role/:role", s.handleUsersByRole)
			users.GET("/:id", s.handleGetUser)
			users.PUT("/:id", s.handleUpdateUser)
			users.DELETE("/:id", s.handleDeleteUser)
			users.POST("/:id/login", s.handleUserLogin)
		}
	}

	s.mountStatic()
}

// handleHealth reports process and database status.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.repo.Ping(c.Request.Context()); err != nil {
		s.logger.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}

// listParams collects the query string, first value per key.
func listParams(c *gin.Context) query.Params {
	params := query.Params{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, models.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the error and returns a JSON payload. Server side
// failures are reported to Sentry and their detail is not echoed.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	log := s.logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"status": status,
	}).WithError(err)

	body := gin.H{"error": err.Error()}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body["error"] = verr.Entity + " validation failed"
		body["details"] = verr.Fields
	}

	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed")
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("method", c.Request.Method)
			scope.SetTag("path", c.FullPath())
			sentry.CaptureException(err)
		})
		body["error"] = http.StatusText(status)
	default:
		log.Info("request rejected")
	}
	c.JSON(status, body)
}

// respondSuccess writes payload as JSON, or only the status when nil.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// readBody returns the raw request body for patch decoding.
func readBody(c *gin.Context) ([]byte, error) {
	data, err := c.GetRawData()
	if err != nil {
		verr := &models.ValidationError{Entity: "request"}
		verr.Add("body", "request body could not be read")
		return nil, verr
	}
	return data, nil
}
