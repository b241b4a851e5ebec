package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// AdjustmentHandler ciclo de vida de ajustes de inventario (protegido).
type AdjustmentHandler struct {
	uc    *inventory.AdjustmentUseCase
	slips *inventory.SlipService
}

// NewAdjustmentHandler construye el handler. slips puede ser nil.
func NewAdjustmentHandler(uc *inventory.AdjustmentUseCase, slips *inventory.SlipService) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc, slips: slips}
}

// Create godoc
// @Summary      Crear ajuste en borrador
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "warehouse_id, reason, items"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.BranchID == "" {
		in.BranchID = GetBranchID(c)
	}
	out, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar ajuste en borrador
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ajuste"
// @Param        body  body  dto.UpdateAdjustmentRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments/{id} [put]
func (h *AdjustmentHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ajustes
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "DRAFT | POSTED"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        branch_id     query  string  false  "Sucursal"
// @Param        from          query  string  false  "Desde"
// @Param        to            query  string  false  "Hasta"
// @Success      200  {object}  dto.AdjustmentListResponse
// @Router       /api/inventory/adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	f, err := documentFilters(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Post godoc
// @Summary      Postear ajuste
// @Description  Aplica las líneas al ledger. Si la política exige aprobación responde 202 con la solicitud y el ajuste sigue en DRAFT.
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.PostAdjustmentResponse
// @Success      202  {object}  dto.PostAdjustmentResponse
// @Failure      409  {object}  dto.StockErrorResponse
// @Router       /api/inventory/adjustments/{id}/post [post]
func (h *AdjustmentHandler) Post(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Post(c.Context(), c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	if out.ApprovalRequest != nil {
		return c.Status(fiber.StatusAccepted).JSON(out)
	}
	return c.JSON(out)
}

// MassPost godoc
// @Summary      Postear todos los borradores
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MassPostResponse
// @Router       /api/inventory/adjustments/mass-post [post]
func (h *AdjustmentHandler) MassPost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.MassPostDrafts(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Copy godoc
// @Summary      Copiar ajuste como nuevo borrador
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste origen"
// @Success      201  {object}  dto.AdjustmentResponse
// @Router       /api/inventory/adjustments/{id}/copy [post]
func (h *AdjustmentHandler) Copy(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Copy(c.Context(), c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Reverse godoc
// @Summary      Crear borrador que revierte un ajuste posteado
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste posteado"
// @Success      201  {object}  dto.AdjustmentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments/{id}/reverse [post]
func (h *AdjustmentHandler) Reverse(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Reverse(c.Context(), c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Slip godoc
// @Summary      Comprobante PDF del ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments/{id}/slip [get]
func (h *AdjustmentHandler) Slip(c *fiber.Ctx) error {
	if h.slips == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "SLIPS_DISABLED", Message: "comprobantes deshabilitados"})
	}
	pdf, name, err := h.slips.AdjustmentSlip(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, name)
}

func documentFilters(c *fiber.Ctx) (dto.DocumentFilters, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return dto.DocumentFilters{}, err
	}
	return dto.DocumentFilters{
		Status:      c.Query("status"),
		WarehouseID: c.Query("warehouse_id"),
		BranchID:    c.Query("branch_id"),
		From:        from,
		To:          to,
		PageRequest: pageParams(c),
	}, nil
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}
