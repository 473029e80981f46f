package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khadamati/khadamati-backend/internal/app/service"
	apperrors "github.com/khadamati/khadamati-backend/internal/errors"
	"github.com/khadamati/khadamati-backend/internal/middleware"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

type SubmitContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// SubmitMessage accepts a public contact form submission
// POST /api/v1/contact
func (ctrl *ContactController) SubmitMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid contact message", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name, email, subject and message are required")
		return
	}

	message, err := ctrl.contactService.SubmitMessage(req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		log.Error("Failed to submit contact message", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit contact message")
		return
	}

	log.Info("Contact message submitted", map[string]interface{}{
		"message_id": message.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Your message has been received. We will get back to you soon.",
	})
}
