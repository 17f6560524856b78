package handlers

import (
	"net/http"

	"go-tindahan-pos/internal/ai"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

func AskAI(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
			return
		}

		if apiKey == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server missing Gemini API key"})
			return
		}

		userID := c.MustGet("userID").(uint)

		response, err := ai.RunAgent(userID, req.Message, apiKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"reply": response})
	}
}
