package httpapi

import (
	_ "embed"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ironsheep/heart-area-tools/internal/analysis"
	"github.com/ironsheep/heart-area-tools/internal/config"
	"github.com/ironsheep/heart-area-tools/internal/report"
)

//go:embed static/index.html
var indexHTML []byte

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Server serves the area analysis endpoint.
type Server struct {
	analyzer   *analysis.Analyzer
	chartOpts  report.ChartOptions
	maxUpload  int64
	staticDir  string
	allowOrigs []string
}

// New creates a Server from cfg. cfg is read once; later changes have no
// effect.
func New(cfg *config.Config) *Server {
	return &Server{
		analyzer:   analysis.New(cfg.Labels, cfg.Server.RequestTimeout),
		chartOpts:  cfg.ChartOptions(),
		maxUpload:  cfg.Server.MaxUploadBytes,
		staticDir:  cfg.Server.StaticDir,
		allowOrigs: cfg.Server.AllowOrigins,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(requestID())

	corsCfg := cors.DefaultConfig()
	if len(s.allowOrigs) == 0 || (len(s.allowOrigs) == 1 && s.allowOrigs[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowOrigs
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsCfg.ExposeHeaders = []string{RequestIDHeader}
	r.Use(cors.New(corsCfg))

	r.GET("/", s.handleIndex)
	r.GET("/health", handleHealth)
	r.POST("/analyze", s.handleAnalyze)
	return r
}

// requestID tags every request with an ID, reusing one the client sent.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	if s.staticDir != "" {
		path := filepath.Join(s.staticDir, "index.html")
		if _, err := os.Stat(path); err == nil {
			c.File(path)
			return
		}
		log.Printf("index.html not found in %s, serving built-in page", s.staticDir)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
