package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// AuditHandler maneja las peticiones HTTP del log de auditoría (protegido,
// listados completos solo para super_admin).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Listar asientos de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        user_id      query  string  false  "Filtrar por actor"
// @Param        entity_type  query  string  false  "stock_item | category | movement | user"
// @Param        from         query  string  false  "Fecha desde (RFC3339)"
// @Param        to           query  string  false  "Fecha hasta (RFC3339)"
// @Param        limit        query  int     false  "Límite"   default(50)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.AuditListResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var in dto.AuditFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	if in.Limit <= 0 {
		in.Limit = 50
	}
	entries, total, err := h.uc.List(repository.AuditFilter{
		UserID:     in.UserID,
		EntityType: in.EntityType,
		From:       in.From,
		To:         in.To,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	out := dto.AuditListResponse{
		Items: make([]dto.AuditEntryResponse, 0, len(entries)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, e := range entries {
		out.Items = append(out.Items, dto.NewAuditEntryResponse(e))
	}
	return c.JSON(out)
}

// Mine godoc
// @Summary      Últimos asientos del usuario autenticado
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200  {array}  dto.AuditEntryResponse
// @Router       /api/audit/me [get]
func (h *AuditHandler) Mine(c *fiber.Ctx) error {
	entries, err := h.uc.ForUser(GetUserID(c), c.QueryInt("limit", 50))
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewAuditEntryResponse(e))
	}
	return c.JSON(out)
}

// Prune godoc
// @Summary      Podar asientos anteriores a N días (retención)
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  true  "Días de retención"
// @Success      200  {object}  map[string]int64
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit [delete]
func (h *AuditHandler) Prune(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	if days <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "days debe ser mayor que cero"})
	}
	deleted, err := h.uc.Prune(days)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
