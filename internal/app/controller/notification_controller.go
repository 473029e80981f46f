package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/service"
	apperrors "github.com/khadamati/khadamati-backend/internal/errors"
	"github.com/khadamati/khadamati-backend/internal/middleware"
	"github.com/khadamati/khadamati-backend/internal/websocket"
)

type NotificationController struct {
	notificationService service.NotificationService
	hub                 *websocket.Hub
	upgrader            gorillaws.Upgrader
}

func NewNotificationController(notificationService service.NotificationService, hub *websocket.Hub) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		hub:                 hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Auth happens in middleware; browsers cannot forge the token
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type UpdateNotificationSettingsRequest struct {
	EmailNotification   *bool    `json:"email_notification"`
	RequestNotification *bool    `json:"request_notification"`
	ReviewNotification  *bool    `json:"review_notification"`
	PreferredCities     []string `json:"preferred_cities"`
}

// ListNotifications returns the caller's notifications
// GET /api/v1/notifications?type=&is_read=
func (ctrl *NotificationController) ListNotifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	limit, offset := paginationParams(c)

	var notifType *model.NotificationType
	if raw := c.Query("type"); raw != "" {
		t := model.NotificationType(raw)
		notifType = &t
	}
	var isRead *bool
	if raw := c.Query("is_read"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			isRead = &parsed
		}
	}

	notifications, total, err := ctrl.notificationService.List(userID, notifType, isRead, limit, offset)
	if err != nil {
		log.Error("Failed to list notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
		"limit":         limit,
		"offset":        offset,
	})
}

// GetUnreadCount returns the caller's unread notification count
// GET /api/v1/notifications/unread-count
func (ctrl *NotificationController) GetUnreadCount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	count, err := ctrl.notificationService.UnreadCount(userID)
	if err != nil {
		log.Error("Failed to count unread notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "count unread notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// MarkAsRead marks one notification as read
// PATCH /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.notificationService.MarkAsRead(userID, notificationID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			apperrors.NotFound(c, apperrors.NotificationNotFound, "Notification not found")
		case errors.Is(err, service.ErrNotificationForbidden):
			apperrors.Forbidden(c, "This notification belongs to another user")
		default:
			log.Error("Failed to mark notification as read", err, map[string]interface{}{
				"notification_id": notificationID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark notification as read")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification marked as read",
	})
}

// MarkAllAsRead marks all of the caller's notifications as read
// PATCH /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllAsRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	if err := ctrl.notificationService.MarkAllAsRead(userID); err != nil {
		log.Error("Failed to mark all notifications as read", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark all notifications as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
	})
}

// DeleteNotification removes one notification
// DELETE /api/v1/notifications/:id
func (ctrl *NotificationController) DeleteNotification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.notificationService.Delete(userID, notificationID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			apperrors.NotFound(c, apperrors.NotificationNotFound, "Notification not found")
		case errors.Is(err, service.ErrNotificationForbidden):
			apperrors.Forbidden(c, "This notification belongs to another user")
		default:
			log.Error("Failed to delete notification", err, map[string]interface{}{
				"notification_id": notificationID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete notification")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification deleted",
	})
}

// GetSettings returns the caller's notification settings
// GET /api/v1/notifications/settings
func (ctrl *NotificationController) GetSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	settings, err := ctrl.notificationService.GetSettings(userID)
	if err != nil {
		log.Error("Failed to get notification settings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get notification settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UpdateSettings updates the caller's notification settings
// PUT /api/v1/notifications/settings
func (ctrl *NotificationController) UpdateSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	var req UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid settings")
		return
	}

	settings, err := ctrl.notificationService.UpdateSettings(userID, service.NotificationSettingsInput{
		EmailNotification:   req.EmailNotification,
		RequestNotification: req.RequestNotification,
		ReviewNotification:  req.ReviewNotification,
		PreferredCities:     req.PreferredCities,
	})
	if err != nil {
		log.Error("Failed to update notification settings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update notification settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}

// ServeWebSocket upgrades the connection for realtime notification push
// GET /api/v1/ws?token=<access token>
func (ctrl *NotificationController) ServeWebSocket(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
