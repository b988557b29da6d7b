package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-api/internal/application/catalog"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// ItemHandler maneja las peticiones HTTP del catálogo de artículos (protegido).
type ItemHandler struct {
	uc *catalog.UseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *catalog.UseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.CreateItem(c.Context(), catalog.CreateItemInput{
		Name:            in.Name,
		CategoryID:      in.CategoryID,
		Unit:            in.Unit,
		InitialQuantity: in.InitialQuantity,
		Threshold:       in.Threshold,
		UnitValue:       in.UnitValue,
		Condition:       in.Condition,
		Location:        in.Location,
		ExpiryDate:      in.ExpiryDate,
		Notes:           in.Notes,
		ActorID:         GetUserID(c),
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewItemResponse(item))
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetItem(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        category_id   query  string  false  "Filtrar por categoría"
// @Param        condition     query  string  false  "good | damaged | expired"
// @Param        stock_status  query  string  false  "low | normal"
// @Param        search        query  string  false  "Búsqueda por nombre"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var in dto.ItemFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	in.DefaultPage()
	items, total, err := h.uc.ListItems(repository.ItemFilter{
		CategoryID:  in.CategoryID,
		Condition:   in.Condition,
		StockStatus: in.StockStatus,
		Search:      in.Search,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewItemListResponse(items, in.Limit, in.Offset, total))
}

// LowStock godoc
// @Summary      Artículos en o bajo su punto de reorden
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/low-stock [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.uc.LowStockItems()
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewItemResponse(it))
	}
	return c.JSON(out)
}

// DamagedOrExpired godoc
// @Summary      Artículos dañados o vencidos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/damaged [get]
func (h *ItemHandler) DamagedOrExpired(c *fiber.Ctx) error {
	items, err := h.uc.DamagedOrExpiredItems()
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewItemResponse(it))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo (campos no-stock)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdateItem(c.Params("id"), catalog.UpdateItemInput{
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Unit:       in.Unit,
		Threshold:  in.Threshold,
		UnitValue:  in.UnitValue,
		Condition:  in.Condition,
		Location:   in.Location,
		ExpiryDate: in.ExpiryDate,
		Notes:      in.Notes,
		ActorID:    GetUserID(c),
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Delete godoc
// @Summary      Eliminar artículo (solo sin movimientos)
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteItem(c.Params("id"), GetUserID(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "artículo eliminado"})
}

// CorrectQuantity godoc
// @Summary      Corregir existencia con delta firmado
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.CorrectQuantityRequest  true  "Delta y nota"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/correct [post]
func (h *ItemHandler) CorrectQuantity(c *fiber.Ctx) error {
	var in dto.CorrectQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.CorrectQuantity(c.Context(), c.Params("id"), in.Delta, in.Note, GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}
