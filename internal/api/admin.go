package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"unmute-go/internal/report"
	"unmute-go/internal/types"
)

type searchRequest struct {
	Query string `json:"query"`
}

func (h *Handler) Login(c *gin.Context) {
	var profile types.AdminProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		badRequest(c, err)
		return
	}
	token, err := h.sessions.Issue(profile)
	if err != nil {
		fail(c, err)
		return
	}
	h.log.WithField("role", profile.Role).WithField("department", profile.Department).Info("admin signed in")
	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Revoke(c.GetString(tokenKey)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, c.MustGet(profileKey))
}

func (h *Handler) ListComplaints(c *gin.Context) {
	filter, err := types.ParseFilter(c.Query("filter"))
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": filter, "complaints": h.svc.Complaints(filter)})
}

func (h *Handler) ToggleComplaint(c *gin.Context) {
	complaint, err := h.svc.ToggleResolution(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) AnalyzeComplaint(c *gin.Context) {
	complaint, err := h.svc.RequestAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) SpeakComplaint(c *gin.Context) {
	played, err := h.svc.ReadAloud(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"played": played})
}

func (h *Handler) Analyzing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ids": h.svc.Analyzing()})
}

func (h *Handler) SearchResources(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.SearchResources(c.Request.Context(), req.Query)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) LastSearch(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.LastSearch())
}

func (h *Handler) Insights(c *gin.Context) {
	ins, card := h.svc.Insights()
	c.JSON(http.StatusOK, gin.H{"insight": ins, "action": card})
}

func (h *Handler) Notices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notices": h.svc.Notices()})
}

// Export streams every complaint as an xlsx workbook.
func (h *Handler) Export(c *gin.Context) {
	f, err := report.Export(h.svc.Complaints(types.FilterAll))
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	name := fmt.Sprintf("complaints-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// Playback upgrades to a websocket that receives synthesized speech as WAV frames.
func (h *Handler) Playback(c *gin.Context) {
	if err := h.listeners.ServeWS(c.Writer, c.Request); err != nil {
		// the upgrader has already written the response
		_ = c.Error(err)
	}
}
