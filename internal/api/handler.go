// Package api exposes the student and admin surfaces over HTTP.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"unmute-go/internal/controller"
	"unmute-go/internal/logger"
	"unmute-go/internal/session"
	"unmute-go/internal/store"
	"unmute-go/internal/types"
)

const (
	profileKey = "admin_profile"
	tokenKey   = "admin_token"
)

// Listeners accepts playback websocket connections.
type Listeners interface {
	ServeWS(w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	svc       *controller.Service
	sessions  *session.Manager
	listeners Listeners
	log       *logger.Logger
}

func NewHandler(svc *controller.Service, sessions *session.Manager, listeners Listeners, log *logger.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, listeners: listeners, log: log.Component("api")}
}

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLog())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	api.POST("/complaints", h.SubmitComplaint)
	api.POST("/complaints/audio", h.SubmitAudio)
	api.POST("/chat/sessions", h.StartChat)
	api.GET("/chat/sessions/:id/messages", h.ChatMessages)
	api.POST("/chat/sessions/:id/messages", h.SendChat)

	api.POST("/admin/login", h.Login)
	admin := api.Group("/admin", h.requireAdmin())
	admin.POST("/logout", h.Logout)
	admin.GET("/profile", h.Profile)
	admin.GET("/complaints", h.ListComplaints)
	admin.POST("/complaints/:id/toggle", h.ToggleComplaint)
	admin.POST("/complaints/:id/analyze", h.AnalyzeComplaint)
	admin.POST("/complaints/:id/speak", h.SpeakComplaint)
	admin.GET("/analyzing", h.Analyzing)
	admin.POST("/resources/search", h.SearchResources)
	admin.GET("/resources", h.LastSearch)
	admin.GET("/insights", h.Insights)
	admin.GET("/notices", h.Notices)
	admin.GET("/export", h.Export)
	admin.GET("/playback", h.Playback)
	return r
}

func (h *Handler) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := h.log.WithRequest(c.Request).
			WithField("status", c.Writer.Status()).
			WithField("duration_ms", time.Since(start).Milliseconds())
		if len(c.Errors) > 0 {
			entry.WithField("error", c.Errors.String()).Warn("request failed")
			return
		}
		entry.Info("request handled")
	}
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	// browsers cannot set headers on a websocket handshake
	return c.Query("token")
}

func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}
		profile, err := h.sessions.Parse(token)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}
		c.Set(profileKey, profile)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// fail maps service errors onto status codes.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, controller.ErrEmptyComplaint),
		errors.Is(err, controller.ErrEmptyQuery),
		errors.Is(err, controller.ErrEmptyMessage),
		errors.Is(err, controller.ErrCaptureFailed),
		errors.Is(err, types.ErrInvalidProfile):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, controller.ErrChatNotFound):
		status = http.StatusNotFound
	case errors.Is(err, controller.ErrAnalysisInFlight):
		status = http.StatusConflict
	case errors.Is(err, controller.ErrTranscriptionFailed):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
