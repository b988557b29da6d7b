package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-api/internal/application/catalog"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/report"
)

// ReportHandler maneja las peticiones HTTP de reportes y panel (protegido).
type ReportHandler struct {
	uc      *report.UseCase
	pdfUC   *report.PDFUseCase
	catalog *catalog.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase, pdfUC *report.PDFUseCase, catalogUC *catalog.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc, pdfUC: pdfUC, catalog: catalogUC}
}

// Stock godoc
// @Summary      Reporte de existencias valorizado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  string  false  "Filtrar por categoría"
// @Success      200  {object}  dto.StockReportResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	r, err := h.uc.BuildStockReport(c.Context(), c.Query("category_id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewStockReportResponse(r))
}

// StockPDF godoc
// @Summary      Exportar reporte de existencias a PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        category_id  query  string  false  "Filtrar por categoría"
// @Success      200  {file}  binary
// @Router       /api/reports/stock/pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	categoryID := c.Query("category_id")
	categoryName := ""
	if categoryID != "" {
		cat, err := h.catalog.GetCategory(categoryID)
		if err != nil {
			return errorJSON(c, err)
		}
		categoryName = cat.Name
	}
	pdfBytes, err := h.pdfUC.ExportStockReport(c.Context(), categoryID, categoryName)
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="reporte_existencias.pdf"`)
	return c.Send(pdfBytes)
}

// Inbound godoc
// @Summary      Reporte de entradas del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha desde (RFC3339)"
// @Param        to    query  string  false  "Fecha hasta (RFC3339)"
// @Success      200  {object}  dto.MovementReportResponse
// @Router       /api/reports/inbound [get]
func (h *ReportHandler) Inbound(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	r, err := h.uc.BuildInboundReport(c.Context(), from, to)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewMovementReportResponse(r))
}

// Outbound godoc
// @Summary      Reporte de salidas del período con desglose por motivo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha desde (RFC3339)"
// @Param        to    query  string  false  "Fecha hasta (RFC3339)"
// @Success      200  {object}  dto.MovementReportResponse
// @Router       /api/reports/outbound [get]
func (h *ReportHandler) Outbound(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	r, err := h.uc.BuildOutboundReport(c.Context(), from, to)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewMovementReportResponse(r))
}

// Shrinkage godoc
// @Summary      Reporte de merma (dañados y vencidos)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ShrinkageReportResponse
// @Router       /api/reports/shrinkage [get]
func (h *ReportHandler) Shrinkage(c *fiber.Ctx) error {
	r, err := h.uc.BuildShrinkageReport(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewShrinkageReportResponse(r))
}

// Monthly godoc
// @Summary      Serie mensual de entradas/salidas de un año
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        year  query  int  false  "Año (por defecto el actual)"
// @Success      200  {array}  dto.MonthlyTotalResponse
// @Router       /api/reports/monthly [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().Year())
	totals, err := h.uc.MonthlyChart(c.Context(), year)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewMonthlyTotalResponses(totals))
}

// TopConsumed godoc
// @Summary      Artículos con mayor salida acumulada
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(8)
// @Success      200  {array}  dto.ItemConsumptionResponse
// @Router       /api/reports/top-consumed [get]
func (h *ReportHandler) TopConsumed(c *fiber.Ctx) error {
	items, err := h.uc.TopConsumedItems(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.ItemConsumptionResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ItemConsumptionResponse(it))
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Indicadores de cabecera del panel
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.uc.DashboardStats(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.NewDashboardResponse(stats))
}

// parseDateRange lee from/to como RFC3339 opcionales.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
