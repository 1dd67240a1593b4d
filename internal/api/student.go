package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type complaintRequest struct {
	Content string `json:"content"`
}

type chatRequest struct {
	Text string `json:"text"`
}

func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req complaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	complaint, err := h.svc.SubmitText(c.Request.Context(), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

// SubmitAudio accepts a recorded clip as the multipart field "audio".
func (h *Handler) SubmitAudio(c *gin.Context) {
	fh, err := c.FormFile("audio")
	if err != nil {
		badRequest(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()

	complaint, err := h.svc.SubmitAudio(c.Request.Context(), f, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (h *Handler) StartChat(c *gin.Context) {
	id, msgs := h.svc.StartChat()
	c.JSON(http.StatusCreated, gin.H{"session_id": id, "messages": msgs})
}

func (h *Handler) ChatMessages(c *gin.Context) {
	msgs, err := h.svc.ChatMessages(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": c.Param("id"), "messages": msgs})
}

func (h *Handler) SendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reply, err := h.svc.SendChat(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
