package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linguachat/internal/auth"
	"linguachat/internal/model"
	"linguachat/pkg/errors"
)

type signupRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	// Field-specific validation messages, checked in a fixed order
	required := []struct {
		name  string
		value string
	}{
		{"username", req.Username},
		{"email", req.Email},
		{"password", req.Password},
		{"nativeLanguage", req.NativeLanguage},
		{"learningLanguage", req.LearningLanguage},
	}
	for _, field := range required {
		if field.value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": errors.NewMissingField(field.name).Message})
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	user := model.NewUser(req.Username, req.Email, hash, req.NativeLanguage, req.LearningLanguage)
	if err := s.users.Create(user); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists"})
			return
		}
		s.logger.Error("failed to persist user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	// Best-effort graph node; signup never fails on graph errors
	if s.facts != nil {
		if err := s.facts.EnsureUser(c.Request.Context(), user); err != nil {
			s.logger.Warn("graph user setup failed", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

type loginRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	// Unknown email and wrong password produce the same response so
	// neither half of the credential pair leaks.
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrInvalidCredentials.Message})
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrInvalidCredentials.Message})
		return
	}

	// Language preferences may be refreshed at login
	if req.NativeLanguage != "" && req.LearningLanguage != "" {
		user.NativeLanguage = req.NativeLanguage
		user.LearningLanguage = req.LearningLanguage
		if err := s.users.Update(user); err != nil {
			s.logger.Warn("failed to update languages at login", zap.Error(err))
		}
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	user, err := s.users.Get(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (s *Server) handleLogout(c *gin.Context) {
	// Stateless tokens; logout is client-side token removal
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
