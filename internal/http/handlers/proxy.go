package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opcl/backend/internal/dashboard"
	"github.com/opcl/backend/internal/genai"
	"github.com/opcl/backend/internal/models"
)

// The four routes in this file keep their exact paths, query parameters
// and response shapes; the deployed frontend depends on them as-is.

// @Summary Application detail
// @Description Fetch one submitted application for the edit flow
// @Tags client
// @Produce json
// @Param id query string true "request id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /api/application-detail [get]
func (h *Handler) ApplicationDetail(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID required"})
		return
	}

	detail, err := h.Client.Detail(c.Request.Context(), id)
	if err != nil {
		if de, ok := dashboard.AsDetailError(err); ok {
			c.JSON(de.Status, gin.H{"error": de.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "데이터를 불러오는 중 오류가 발생했습니다."})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// @Summary Application list
// @Description Client's submitted applications; degrades to an empty list
// @Tags client
// @Produce json
// @Param email query string true "client email"
// @Success 200 {object} dashboard.Applications
// @Router /api/applications [get]
func (h *Handler) ApplicationsList(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email required"})
		return
	}

	// The _t query parameter marks a forced refresh.
	force := c.Query("_t") != ""
	c.JSON(http.StatusOK, h.Client.Applications(c.Request.Context(), email, force))
}

type chatRequest struct {
	Message     string               `json:"message" binding:"required"`
	History     []models.ChatMessage `json:"history"`
	UserProfile genai.UserProfile    `json:"userProfile"`
}

// @Summary AI pre-counseling chat turn
// @Tags ai
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("AI 응답을 생성하는 도중 문제가 발생했습니다. (%s)", err.Error()),
		})
		return
	}

	history := genai.SanitizeHistory(req.History)
	output, err := h.AI.Chat(c.Request.Context(), req.UserProfile, history, req.Message)
	if err != nil {
		h.Logger.Error().Err(err).Msg("chat generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("AI 응답을 생성하는 도중 문제가 발생했습니다. (%s)", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": output})
}

// @Summary Transcribe and diarize a consultation recording
// @Tags ai
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "recorded audio"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/stt [post]
func (h *Handler) STT(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "오디오 파일이 필요합니다."})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("STT 분석 도중 문제가 발생했습니다. (%s)", err.Error()),
		})
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("STT 분석 도중 문제가 발생했습니다. (%s)", err.Error()),
		})
		return
	}

	transcript, err := h.AI.Transcribe(c.Request.Context(), file.Header.Get("Content-Type"), audio)
	if err != nil {
		h.Logger.Error().Err(err).Int("bytes", len(audio)).Msg("stt failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("STT 분석 도중 문제가 발생했습니다. (%s)", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}
