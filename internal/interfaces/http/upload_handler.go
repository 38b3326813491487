package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
)

// UploadHandler recibe la foto del material (multipart) y devuelve su URL pública.
type UploadHandler struct {
	uc *inventory.ImageUploadUseCase
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *inventory.ImageUploadUseCase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

// UploadImage godoc
// @Summary      Subir imagen de material
// @Description  La imagen se reduce y re-codifica como JPEG. La URL devuelta se envía como image_url al registrar.
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen"
// @Success      201   {object}  dto.ImageUploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/uploads/images [post]
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "campo file requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("%w: no se pudo leer el archivo", domain.ErrValidation))
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, fmt.Errorf("%w: no se pudo leer el archivo", domain.ErrValidation))
	}

	url, err := h.uc.Upload(c.Context(), fh.Filename, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ImageUploadResponse{URL: url})
}
