// Package server wires the HTTP transport: request routing, CORS, request
// IDs, and the request-scoped logger, around the sceneio/driver core.
package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thermalsim/viewfactor/pkg/driver"
	"github.com/thermalsim/viewfactor/pkg/sceneio"
)

const (
	readTimeout  = 300 * time.Second
	writeTimeout = 300 * time.Second
	idleTimeout  = 60 * time.Second
)

// Server serves the view-factor calculation API.
type Server struct {
	addr    string
	workers int
	engine  *gin.Engine
	logger  *log.Logger
}

// NewServer creates a Server listening on addr. workers configures the
// driver's worker pool size; 0 defers to runtime.NumCPU().
func NewServer(addr string, workers int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{addr: addr, workers: workers, logger: logger}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(corsMiddleware())
	engine.Use(loggingMiddleware(logger))

	engine.GET("/health", s.handleHealth)
	engine.GET("/status", s.handleStatus)
	engine.POST("/calculate", s.handleCalculate)
	engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusOK)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	s.engine = engine
	return s
}

// Start blocks serving HTTP on s.addr.
func (s *Server) Start() error {
	httpServer := &http.Server{
		Addr:         s.addr,
		Handler:      s.engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	s.logger.Printf("listening on %s", s.addr)
	return httpServer.ListenAndServe()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "running", "version": "1.0"})
}

func (s *Server) handleCalculate(c *gin.Context) {
	requestLogger := loggerFromContext(c, s.logger)

	sc, err := sceneio.Decode(c.Request.Body)
	if err != nil {
		requestLogger.Printf("calculate: parse error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestLogger.Printf("calculate: %d emitter(s), %d occluder(s), %d plane(s), num_rays=%d",
		len(sc.Emitters), len(sc.Occluders), len(sc.Planes), sc.NumRays)
	for _, p := range sc.Planes {
		requestLogger.Printf("calculate: plane %q width=%d height=%d points=%d", p.Name, p.Width, p.Height, len(p.Points))
	}

	results := driver.Run(c.Request.Context(), sc, s.workers, requestLogger)

	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)
	if err := sceneio.Encode(c.Writer, results); err != nil {
		requestLogger.Printf("calculate: encode error: %v", err)
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func loggingMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id, _ := c.Get("request_id")

		logger.Printf("[%v] start %s %s", id, c.Request.Method, c.Request.URL.Path)
		c.Next()
		logger.Printf("[%v] done %s %s status=%d duration=%s", id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// loggerFromContext returns a logger whose lines are prefixed with the
// request ID, so concurrent /calculate requests never interleave illegibly.
func loggerFromContext(c *gin.Context, base *log.Logger) *log.Logger {
	id, _ := c.Get("request_id")
	return log.New(base.Writer(), "["+idString(id)+"] ", base.Flags())
}

func idString(id interface{}) string {
	if s, ok := id.(string); ok {
		return s
	}
	return "-"
}
