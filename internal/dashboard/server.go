package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"newsreel/internal/logger"
	"newsreel/internal/metrics"
	"newsreel/internal/state"
)

// SchedulerInfo is what the health endpoint reports about the job runner.
type SchedulerInfo interface {
	NextRun() time.Time
	ActiveJobs() int
}

// Server is the minimal control surface: view status, flip the run/pause
// flag, read health. It never touches the pipeline directly; the flag
// file is the only contract between dashboard and scheduler.
type Server struct {
	flag        *state.File
	sched       SchedulerInfo
	healthToken string
}

func NewServer(flag *state.File, sched SchedulerInfo, healthToken string) *Server {
	return &Server{
		flag:        flag,
		sched:       sched,
		healthToken: healthToken,
	}
}

// Router builds the gin engine. Admin routes sit behind basic auth; the
// health endpoint is gated by a shared token so probes don't need the
// admin credentials.
func (s *Server) Router(adminUser, adminPassword string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/", s.home)
	r.GET("/health", s.health)

	admin := r.Group("/", gin.BasicAuth(gin.Accounts{adminUser: adminPassword}))
	admin.GET("/status", s.status)
	admin.POST("/start", s.start)
	admin.POST("/stop", s.stop)
	admin.GET("/metrics", s.metrics)

	return r
}

// Run serves the dashboard until the listener fails; meant to be called
// from a goroutine.
func (s *Server) Run(port, adminUser, adminPassword string) error {
	logger.Info("starting dashboard", "port", port)
	return s.Router(adminUser, adminPassword).Run(":" + port)
}

func (s *Server) home(c *gin.Context) {
	c.String(http.StatusOK, "newsreel: automated news carousel bot. See /status (admin) and /health (token).")
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   s.flag.Get(),
		"next_run": s.nextRun(),
	})
}

func (s *Server) start(c *gin.Context) {
	if err := s.flag.Set(state.Running); err != nil {
		logger.Error("failed to set state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist state"})
		return
	}
	logger.Info("bot started via dashboard")
	c.JSON(http.StatusOK, gin.H{"status": state.Running})
}

func (s *Server) stop(c *gin.Context) {
	if err := s.flag.Set(state.Paused); err != nil {
		logger.Error("failed to set state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist state"})
		return
	}
	logger.Info("bot paused via dashboard")
	c.JSON(http.StatusOK, gin.H{"status": state.Paused})
}

func (s *Server) metrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Global.Snapshot())
}

func (s *Server) health(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("X-Auth-Token")
	}
	if s.healthToken == "" || token != s.healthToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	snapshot := metrics.Global.Snapshot()
	code := http.StatusOK
	if healthy, ok := snapshot["is_healthy"].(bool); ok && !healthy {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      s.flag.Get(),
		"next_run":    s.nextRun(),
		"active_jobs": s.sched.ActiveJobs(),
		"metrics":     snapshot,
	})
}

func (s *Server) nextRun() string {
	next := s.sched.NextRun()
	if next.IsZero() {
		return ""
	}
	return next.Format(time.RFC3339)
}
