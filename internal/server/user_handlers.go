package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linguachat/internal/auth"
	"linguachat/internal/graph"
)

type profileUpdateRequest struct {
	Username         string `json:"username"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	user, err := s.users.Get(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.NativeLanguage != "" {
		user.NativeLanguage = req.NativeLanguage
	}
	if req.LearningLanguage != "" {
		user.LearningLanguage = req.LearningLanguage
	}

	if err := s.users.Update(user); err != nil {
		s.logger.Error("profile update failed", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user.Public(),
	})
}

func (s *Server) handleUpdatePersonalization(c *gin.Context) {
	user, err := s.users.Get(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	var form map[string]string
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if form == nil {
		form = map[string]string{}
	}

	// The submitted form replaces the stored map wholesale; a field
	// omitted from a re-submission does not survive.
	user.Personalization = form

	if err := s.users.Update(user); err != nil {
		s.logger.Error("personalization update failed", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update personalization"})
		return
	}

	resp := gin.H{
		"message": "Personalization updated successfully",
		"user":    user.Public(),
	}

	// Graph enrichment is synchronous here so the client sees the
	// outcome, but its failure never fails the update.
	if s.facts != nil {
		result := s.facts.ProcessPersonalization(c.Request.Context(), user.ID, form)
		resp["graph_success"] = result.Success
		resp["graph_updates"] = result.Updates
		resp["graph_reasoning"] = result.Reasoning
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeletePersonalization(c *gin.Context) {
	user, err := s.users.Get(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	user.Personalization = make(map[string]string)
	if err := s.users.Update(user); err != nil {
		s.logger.Error("personalization delete failed", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete personalization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Personalization deleted successfully"})
}

func (s *Server) handleGraphContext(c *gin.Context) {
	// Without a graph store the context is empty, not an error
	if s.facts == nil {
		c.JSON(http.StatusOK, graph.UserContext{
			ConversationStarters: []string{},
			RelevantVocabulary:   []string{},
		})
		return
	}

	uc, err := s.facts.UserContext(c.Request.Context(), auth.UserID(c))
	if err != nil {
		s.logger.Error("graph context lookup failed", zap.String("user_id", auth.UserID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load graph context"})
		return
	}

	c.JSON(http.StatusOK, uc)
}

func (s *Server) handleGraphStats(c *gin.Context) {
	if s.facts == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Graph store is not configured",
		})
		return
	}

	stats, err := s.facts.Stats(c.Request.Context())
	if err != nil {
		s.logger.Error("graph stats lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load graph stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
