package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del ledger de movimientos (protegido).
type MovementHandler struct {
	uc *ledger.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Inbound godoc
// @Summary      Registrar entrada de stock
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InboundRequest  true  "item_id, quantity, supplier"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movements/in [post]
func (h *MovementHandler) Inbound(c *fiber.Ctx) error {
	var in dto.InboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RecordInbound(c.Context(), ledger.InboundInput{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Date:     timeOrZero(in.Date),
		Supplier: in.Supplier,
		Note:     in.Note,
		ActorID:  GetUserID(c),
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// Outbound godoc
// @Summary      Registrar salida de stock
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OutboundRequest  true  "item_id, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movements/out [post]
func (h *MovementHandler) Outbound(c *fiber.Ctx) error {
	var in dto.OutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RecordOutbound(c.Context(), ledger.OutboundInput{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Date:     timeOrZero(in.Date),
		Reason:   in.Reason,
		Note:     in.Note,
		ActorID:  GetUserID(c),
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// Adjustment godoc
// @Summary      Registrar ajuste manual con delta firmado
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "item_id, delta"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/adjustments [post]
func (h *MovementHandler) Adjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RecordAdjustment(c.Context(), ledger.AdjustmentInput{
		ItemID:  in.ItemID,
		Delta:   in.Delta,
		Date:    timeOrZero(in.Date),
		Label:   in.Label,
		Note:    in.Note,
		ActorID: GetUserID(c),
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	mov, err := h.uc.GetMovement(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewMovementResponse(mov))
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        kind          query  string  false  "IN | OUT | ADJUSTMENT"
// @Param        item_id       query  string  false  "Filtrar por artículo"
// @Param        counterparty  query  string  false  "Proveedor o motivo exacto"
// @Param        from          query  string  false  "Fecha desde (RFC3339)"
// @Param        to            query  string  false  "Fecha hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	in.DefaultPage()
	movs, total, err := h.uc.ListMovements(repository.MovementFilter{
		Kind:         in.Kind,
		ItemID:       in.ItemID,
		Counterparty: in.Counterparty,
		From:         in.From,
		To:           in.To,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewMovementListResponse(movs, in.Limit, in.Offset, total))
}

// CheckBalance godoc
// @Summary      Verificar consistencia de existencia vs ledger
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        item_id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/balance/{item_id} [get]
func (h *MovementHandler) CheckBalance(c *fiber.Ctx) error {
	itemID := c.Params("item_id")
	ok, err := h.uc.CheckItemBalance(itemID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.BalanceResponse{ItemID: itemID, Consistent: ok})
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
