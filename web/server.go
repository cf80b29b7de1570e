package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fitqa/internal/app"
	apperrors "fitqa/internal/app/errors"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// min=3 alone accepts all-whitespace questions
		v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

// Server is the demo Q&A surface: one HTML form and one JSON endpoint over an
// AskService. It is presentation glue only; retrieval and synthesis semantics
// live in the service.
type Server struct {
	service    *app.AskService
	logger     *zap.Logger
	httpServer *http.Server
}

type askRequest struct {
	Question    string   `json:"question" binding:"required,min=3,notblank"`
	K           int      `json:"k" binding:"omitempty,gte=1,lte=50"`
	Model       string   `json:"model" binding:"omitempty"`
	Temperature *float64 `json:"temperature" binding:"omitempty,gte=0,lte=2"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// NewServer creates the demo server around an assembled ask service.
func NewServer(service *app.AskService, logger *zap.Logger, addr string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		service: service,
		logger:  logger,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
	}

	router.GET("/", s.index)
	router.POST("/api/v1/ask", s.ask)
	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting demo server", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	temperature := -1.0
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	answer, err := s.service.AskWith(c.Request.Context(), req.Question, req.K, req.Model, temperature)
	if err != nil {
		s.logger.Error("ask failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrSynthesisFailed) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, indexHTML)
}
