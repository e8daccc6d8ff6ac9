package server

import (
	"net/http"

	"github.com/HiXaM94/cat-gallery/internal/contact"
	"github.com/gin-gonic/gin"
)

type contactRequestPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *httpHandler) handleContact(c *gin.Context) {
	var request contactRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	message, err := h.contact.Submit(c.Request.Context(), contact.SubmitRequest{
		Name:    request.Name,
		Email:   request.Email,
		Subject: request.Subject,
		Message: request.Message,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message_id": message.ID})
}
