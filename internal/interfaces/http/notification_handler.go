package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/notification"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// NotificationHandler maneja las peticiones HTTP de notificaciones (protegido).
// Todas operan sobre las notificaciones visibles para el usuario autenticado:
// las dirigidas a él más las de difusión.
type NotificationHandler struct {
	uc *notification.UseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notification.UseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Listar notificaciones del usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        read      query  bool    false  "Filtrar por leídas/no leídas"
// @Param        severity  query  string  false  "info | success | warning | danger"
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.NotificationListResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.NotificationFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	in.DefaultPage()
	items, total, err := h.uc.List(userID, repository.NotificationFilter{
		Read:     in.Read,
		Severity: in.Severity,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	unread, err := h.uc.UnreadCount(userID)
	if err != nil {
		return errorJSON(c, err)
	}
	out := dto.NotificationListResponse{
		Items:  make([]dto.NotificationResponse, 0, len(items)),
		Unread: unread,
		Page:   dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, n := range items {
		out.Items = append(out.Items, dto.NewNotificationResponse(n))
	}
	return c.JSON(out)
}

// UnreadCount godoc
// @Summary      Contar notificaciones no leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/notifications/unread [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.uc.UnreadCount(GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"unread": n})
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "notificación leída"})
}

// MarkAllRead godoc
// @Summary      Marcar todas las notificaciones como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.uc.MarkAllRead(GetUserID(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "notificaciones leídas"})
}

// DeleteAll godoc
// @Summary      Eliminar todas las notificaciones visibles para el usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/notifications [delete]
func (h *NotificationHandler) DeleteAll(c *fiber.Ctx) error {
	if err := h.uc.DeleteAll(GetUserID(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "notificaciones eliminadas"})
}
