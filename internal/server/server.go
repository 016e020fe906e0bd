// Package server is the HTTP boundary: a thin gin layer over the
// platform orchestrator with no logic of its own beyond request decoding
// and error mapping.
package server

// #region imports
import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/audit"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/engine"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/platform"
)

// #endregion

// #region request-types

// recommendationRequest is the POST /recommendation body. With both lat
// and lon present the request routes through external data ingestion.
type recommendationRequest struct {
	Domain string         `json:"domain" binding:"required"`
	Inputs map[string]any `json:"inputs"`
	Lat    *float64       `json:"lat"`
	Lon    *float64       `json:"lon"`
}

// batchRequest is the POST /recommendations/batch body.
type batchRequest struct {
	AllInputs map[string]map[string]any `json:"all_inputs"`
}

// #endregion request-types

// #region router

// Server serves the platform over HTTP.
type Server struct {
	platform *platform.Platform
	log      *zap.Logger
}

// New builds a Server around a platform.
func New(p *platform.Platform, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{platform: p, log: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.handleRoot)
	r.POST("/recommendation", s.handleRecommendation)
	r.POST("/recommendations/batch", s.handleBatch)
	r.POST("/confirm_emergency/:audit_id", s.handleConfirmEmergency)
	r.GET("/reconstruct/:audit_id", s.handleReconstruct)
	r.GET("/kpis", s.handleKPIs)
	return r
}

// #endregion router

// #region handlers

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "FarmSense Deterministic Farming Operations Platform API"})
}

func (s *Server) handleRecommendation(c *gin.Context) {
	var req recommendationRequest
	if err := c.BindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var view platform.View
	var err error
	if req.Lat != nil && req.Lon != nil {
		view, err = s.platform.GetRecommendationWithExternalData(
			c.Request.Context(), req.Domain, *req.Lat, *req.Lon, req.Inputs)
	} else {
		view, err = s.platform.GetRecommendation(req.Domain, engine.Inputs(req.Inputs))
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleBatch(c *gin.Context) {
	var req batchRequest
	if err := c.BindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	perDomain := make(map[string]engine.Inputs, len(req.AllInputs))
	for domain, inputs := range req.AllInputs {
		perDomain[domain] = engine.Inputs(inputs)
	}
	c.JSON(http.StatusOK, s.platform.GetAllRecommendations(perDomain))
}

func (s *Server) handleConfirmEmergency(c *gin.Context) {
	result, err := s.platform.ConfirmEmergency(c.Param("audit_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleReconstruct(c *gin.Context) {
	result, err := s.platform.Reconstruct(c.Param("audit_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleKPIs(c *gin.Context) {
	aggregated, err := s.platform.AggregateKPIs(c.Query("domain"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, aggregated)
}

// #endregion handlers

// #region error-mapping

// respondError maps core error kinds onto HTTP statuses: client mistakes
// are 4xx, upstream ingestion trouble is 502, everything else is a 500.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, platform.ErrUnknownDomain):
		errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, audit.ErrNotFound):
		errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, platform.ErrIngestion):
		errorJSON(c, http.StatusBadGateway, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, err.Error())
	}
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"error":     msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// #endregion error-mapping
