// Package api serves the charger registers over HTTP.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/tetragramaton/amtron-api/internal/amtron"
	"github.com/tetragramaton/amtron-api/internal/ha"
	"github.com/tetragramaton/amtron-api/internal/metrics"
)

type Server struct {
	charger   *amtron.Charger
	publisher ha.Publisher
	router    *gin.Engine
}

func NewServer(charger *amtron.Charger, publisher ha.Publisher, gatherer prometheus.Gatherer) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		charger:   charger,
		publisher: publisher,
		router:    router,
	}
	s.setupRoutes(gatherer)
	return s
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	status := s.router.Group("/status")
	status.GET("/evse", s.EVSEStatusGet())
	status.GET("/authorization", s.AuthorizationStatusGet())

	settings := s.router.Group("/settings")
	settings.GET("/current-limit", s.CurrentLimitGet())
	settings.PUT("/current-limit", s.CurrentLimitPut())
	settings.GET("/charging-release", s.ChargingReleaseGet())
	settings.PUT("/charging-release", s.ChargingReleasePut())

	sessions := s.router.Group("/sessions/current")
	sessions.GET("/power", s.SessionPowerGet())
	sessions.GET("/energy", s.SessionEnergyGet())
	sessions.GET("/duration", s.SessionDurationGet())

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(code)).Inc()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   code,
			"duration": time.Since(start),
		}).Debug("request")
	}
}
