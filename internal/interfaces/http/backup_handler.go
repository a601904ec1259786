package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/umkmhub/umkm-api/internal/application/backup"
	"github.com/umkmhub/umkm-api/internal/application/dto"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeText = "text/plain; charset=utf-8"
	mimePDF  = "application/pdf"
)

// BackupHandler respaldo JSON, restauración y exportaciones.
type BackupHandler struct {
	uc *backup.UseCase
}

// NewBackupHandler construye el handler.
func NewBackupHandler(uc *backup.UseCase) *BackupHandler {
	return &BackupHandler{uc: uc}
}

// Export godoc
// @Summary      Descargar respaldo
// @Description  {version:"1.0", exported_at, products, sales, notifications} del usuario.
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BackupFile
// @Router       /api/backup [get]
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	out, err := h.uc.Export(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(fmt.Sprintf("umkm-backup-%s.json", time.Now().Format("2006-01-02")))
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar respaldo
// @Description  Solo version "1.0". Crea o actualiza productos del usuario; ventas y notificaciones
// @Description  del archivo no se reimportan.
// @Tags         backup
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BackupFile  true  "archivo de respaldo"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/backup/restore [post]
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	var in dto.BackupFile
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Import(c.Context(), GetUserID(c), &in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Excel godoc
// @Summary      Exportar a Excel
// @Tags         backup
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/export/excel [get]
func (h *BackupHandler) Excel(c *fiber.Ctx) error {
	data, err := h.uc.ExportExcel(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, mimeXLSX, "umkm-data", "xlsx")
}

// TextReport godoc
// @Summary      Reporte en texto plano
// @Tags         backup
// @Security     Bearer
// @Produce      plain
// @Success      200
// @Router       /api/export/report.txt [get]
func (h *BackupHandler) TextReport(c *fiber.Ctx) error {
	data, err := h.uc.ExportText(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, mimeText, "laporan-umkm", "txt")
}

// PDFReport godoc
// @Summary      Reporte en PDF
// @Tags         backup
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/export/report.pdf [get]
func (h *BackupHandler) PDFReport(c *fiber.Ctx) error {
	data, err := h.uc.ExportPDF(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, mimePDF, "laporan-umkm", "pdf")
}

func sendFile(c *fiber.Ctx, data []byte, contentType, base, ext string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-%s.%s"`, base, time.Now().Format("2006-01-02"), ext))
	return c.Send(data)
}
