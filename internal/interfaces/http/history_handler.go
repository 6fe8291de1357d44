package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/export"
	"github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
)

// HistoryHandler maneja el historial de transacciones de un artículo y sus
// exportaciones (CSV, XLSX y Kardex PDF).
type HistoryHandler struct {
	uc     *inventory.HistoryUseCase
	kardex *pdf.KardexGenerator
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *inventory.HistoryUseCase, kardex *pdf.KardexGenerator) *HistoryHandler {
	return &HistoryHandler{uc: uc, kardex: kardex}
}

// parseFilter arma el filtro de historial desde el query string.
// Fechas en formato YYYY-MM-DD; "to" es inclusivo (se extiende al fin del día).
func parseFilter(c *fiber.Ctx) (repository.TransactionFilter, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return repository.TransactionFilter{}, fmt.Errorf("query inválido")
	}
	page.DefaultPage()
	filter := repository.TransactionFilter{
		Type:   entity.TransactionType(c.Query("type")),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return filter, fmt.Errorf("type desconocido: %s", filter.Type)
	}
	const layout = "2006-01-02"
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(layout, v)
		if err != nil {
			return filter, fmt.Errorf("from debe ser YYYY-MM-DD")
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(layout, v)
		if err != nil {
			return filter, fmt.Errorf("to debe ser YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	return filter, nil
}

// List godoc
// @Summary      Historial de transacciones de un artículo
// @Description  Más reciente primero. Filtros por tipo y rango de fechas.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del artículo"
// @Param        type    query  string  false  "Filtrar por tipo de transacción"
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD, inclusivo)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/transactions [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.List(GetCompanyID(c), c.Params("id"), filter)
	if err != nil {
		return errorToResponse(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar historial de un artículo
// @Description  format=csv|xlsx|pdf. El PDF es el Kardex del artículo con
// @Description  totales de entradas y salidas.
// @Tags         transactions
// @Security     Bearer
// @Produce      application/octet-stream
// @Param        id      path   string  true   "ID del artículo"
// @Param        format  query  string  true   "csv | xlsx | pdf"
// @Param        type    query  string  false  "Filtrar por tipo de transacción"
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD, inclusivo)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/transactions/export [get]
func (h *HistoryHandler) Export(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	format := c.Query("format", "csv")

	switch format {
	case "csv":
		_, item, txns, err := h.exportBundle(c, filter)
		if err != nil {
			return errorToResponse(c, err)
		}
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, txns); err != nil {
			return errorToResponse(c, err)
		}
		return sendAttachment(c, "text/csv; charset=utf-8", item.SKU+"_historial.csv", buf.Bytes())

	case "xlsx":
		_, item, txns, err := h.exportBundle(c, filter)
		if err != nil {
			return errorToResponse(c, err)
		}
		data, err := export.WriteXLSX(item, txns)
		if err != nil {
			return errorToResponse(c, err)
		}
		return sendAttachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", item.SKU+"_historial.xlsx", data)

	case "pdf":
		company, item, txns, err := h.exportBundle(c, filter)
		if err != nil {
			return errorToResponse(c, err)
		}
		data, err := h.kardex.Generate(company, item, txns)
		if err != nil {
			return errorToResponse(c, err)
		}
		return sendAttachment(c, "application/pdf", item.SKU+"_kardex.pdf", data)

	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser csv, xlsx o pdf"})
	}
}

func (h *HistoryHandler) exportBundle(c *fiber.Ctx, filter repository.TransactionFilter) (*entity.Company, *entity.Item, []*entity.StockTransaction, error) {
	return h.uc.ExportBundle(GetCompanyID(c), c.Params("id"), filter)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
