package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// ApprovalHandler bandeja de solicitudes de aprobación (admin y supervisor).
type ApprovalHandler struct {
	uc *inventory.ApprovalUseCase
}

// NewApprovalHandler construye el handler.
func NewApprovalHandler(uc *inventory.ApprovalUseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

// List godoc
// @Summary      Listar solicitudes de aprobación
// @Tags         approvals
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | APPROVED | REJECTED"
// @Success      200  {object}  dto.ApprovalListResponse
// @Router       /api/approvals [get]
func (h *ApprovalHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("status"), pageParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud
// @Tags         approvals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ApprovalResponse
// @Router       /api/approvals/{id} [get]
func (h *ApprovalHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar y postear el documento
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReviewApprovalRequest  false  "Nota"
// @Success      200   {object}  dto.ApprovalResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.uc.Approve)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReviewApprovalRequest  false  "Nota"
// @Success      200   {object}  dto.ApprovalResponse
// @Router       /api/approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.uc.Reject)
}

type reviewFunc func(ctx context.Context, requestID, reviewerID, note string) (*dto.ApprovalResponse, error)

func (h *ApprovalHandler) review(c *fiber.Ctx, fn reviewFunc) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ReviewApprovalRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := fn(c.Context(), c.Params("id"), userID, in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
