package report

import "context"

// StockReportPDFGenerator genera el documento PDF de un reporte de
// existencias. Implementado en infrastructure/pdf (Maroto).
type StockReportPDFGenerator interface {
	GenerateStockReportPDF(ctx context.Context, r *StockReport, categoryName string) ([]byte, error)
}

// PDFUseCase arma el reporte de existencias y lo exporta a PDF.
type PDFUseCase struct {
	reports   *UseCase
	generator StockReportPDFGenerator
}

// NewPDFUseCase construye el caso de uso de exportación.
func NewPDFUseCase(reports *UseCase, generator StockReportPDFGenerator) *PDFUseCase {
	return &PDFUseCase{reports: reports, generator: generator}
}

// ExportStockReport genera el PDF del reporte de existencias, opcionalmente
// filtrado por categoría.
func (uc *PDFUseCase) ExportStockReport(ctx context.Context, categoryID, categoryName string) ([]byte, error) {
	r, err := uc.reports.BuildStockReport(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateStockReportPDF(ctx, r, categoryName)
}
