package controllers

import (
	"strconv"

	"trungminh/middleware"
	"trungminh/services"
	"trungminh/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationController struct {
	notificationService *services.NotificationService
	stats               *services.NotificationStats
}

type CreateNotificationResponse struct {
	Notification   services.AdminNotificationView `json:"notification"`
	RecipientCount int                            `json:"recipientCount"`
}

func NewNotificationController(notificationService *services.NotificationService, stats *services.NotificationStats) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		stats:               stats,
	}
}

// CreateNotification fans a notification out to the requested target groups.
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var input services.CreateNotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	notification, err := nc.notificationService.Create(c.Request.Context(), input, userID)
	if err != nil {
		respondError(c, err, "Failed to create notification")
		return
	}

	utils.CreatedResponse(c, "Notification created", CreateNotificationResponse{
		Notification:   services.ToAdminView(notification),
		RecipientCount: len(notification.Recipients),
	})
}

// ListNotifications is the admin listing across all notifications.
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	notifications, err := nc.notificationService.ListForAdmin(c.Request.Context(), queryLimit(c))
	if err != nil {
		respondError(c, err, "Failed to list notifications")
		return
	}

	utils.SuccessResponse(c, "Notifications retrieved", notifications)
}

func (nc *NotificationController) GetStats(c *gin.Context) {
	stats, err := nc.stats.Compute(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute notification stats")
		return
	}

	utils.SuccessResponse(c, "Notification stats retrieved", stats)
}

// ListMyNotifications returns the caller's notifications and unread count.
func (nc *NotificationController) ListMyNotifications(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	result, err := nc.notificationService.ListForUser(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		respondError(c, err, "Failed to list notifications")
		return
	}

	utils.SuccessResponse(c, "Notifications retrieved", result)
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	notification, err := nc.notificationService.MarkRead(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to mark notification as read")
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", services.ToUserView(notification, userID))
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	updated, err := nc.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to mark notifications as read")
		return
	}

	utils.SuccessResponse(c, "Notifications marked as read", gin.H{"updated": updated})
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	userID, isAdmin, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	outcome, err := nc.notificationService.Delete(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		respondError(c, err, "Failed to delete notification")
		return
	}

	utils.SuccessResponse(c, "Notification deleted", gin.H{"outcome": outcome})
}

// queryLimit reads ?limit=; anything unparsable falls back to the service default.
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}
