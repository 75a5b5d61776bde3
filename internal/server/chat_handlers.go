package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linguachat/internal/auth"
	"linguachat/internal/speech"
)

type messageRequest struct {
	Message    string  `json:"message"`
	AudioSpeed float64 `json:"audio_speed"`
}

func (s *Server) handleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message content is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message cannot be empty"})
		return
	}

	speed := speech.ClampSpeed(req.AudioSpeed)

	reply := s.orch.Respond(c.Request.Context(), auth.UserID(c), req.Message, speed)

	// The fallback reply carries the same shape as a success so the
	// client can render it; only the status code differs.
	status := http.StatusOK
	if reply.Err != nil {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{
		"response":       reply.Response,
		"intent":         reply.Intent,
		"audio_language": reply.AudioLanguage,
		"audio_data":     reply.AudioData,
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	msgs, err := s.manager.History(auth.UserID(c))
	if err != nil {
		s.logger.Error("history load failed", zap.String("user_id", auth.UserID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":      msgs,
		"message_count": len(msgs),
	})
}

func (s *Server) handleNewSession(c *gin.Context) {
	userID := auth.UserID(c)

	// Cached audio belongs to the ended session
	s.speech.ClearCache()

	if err := s.manager.StartNewSession(userID); err != nil {
		s.logger.Error("new session failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to start new session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "New session started"})
}

type regenerateAudioRequest struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Speed    float64 `json:"audio_speed"`
}

func (s *Server) handleRegenerateAudio(c *gin.Context) {
	var req regenerateAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" || req.Language == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Text and language are required"})
		return
	}

	audio, err := s.speech.Synthesize(c.Request.Context(), req.Text, req.Language, speech.ClampSpeed(req.Speed))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate audio"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audio_data": audio})
}
