package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrInsufficientBatchStock  = errors.New("stock insuficiente en lotes")
	ErrConversionNotFound      = errors.New("conversión de unidad no encontrada")
	ErrInvalidConversionFactor = errors.New("factor de conversión inválido")
	ErrInvalidState            = errors.New("estado del documento no permite la operación")
)

// ValidationError entrada mal formada; Field nombra el campo ofensivo.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NotFoundError recurso inexistente (producto, bodega, documento...).
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError el saldo resultante sería negativo.
// Shortfall = Requested - Available (en unidad base).
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
	Shortfall   decimal.Decimal
}

// NewInsufficientStockError calcula el faltante a partir de disponible y solicitado.
func NewInsufficientStockError(productID, warehouseID string, available, requested decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Available:   available,
		Requested:   requested,
		Shortfall:   requested.Sub(available),
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en bodega %s: disponible %s, solicitado %s, faltan %s",
		e.ProductID, e.WarehouseID, e.Available.String(), e.Requested.String(), e.Shortfall.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InsufficientBatchStockError los lotes abiertos no cubren la cantidad a consumir.
type InsufficientBatchStockError struct {
	ProductID   string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
	Shortfall   decimal.Decimal
}

// NewInsufficientBatchStockError calcula el faltante de lotes.
func NewInsufficientBatchStockError(productID, warehouseID string, available, requested decimal.Decimal) *InsufficientBatchStockError {
	return &InsufficientBatchStockError{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Available:   available,
		Requested:   requested,
		Shortfall:   requested.Sub(available),
	}
}

func (e *InsufficientBatchStockError) Error() string {
	return fmt.Sprintf("lotes insuficientes para producto %s en bodega %s: disponible %s, solicitado %s, faltan %s",
		e.ProductID, e.WarehouseID, e.Available.String(), e.Requested.String(), e.Shortfall.String())
}

func (e *InsufficientBatchStockError) Unwrap() error { return ErrInsufficientBatchStock }

// ConversionNotFoundError la unidad no existe en la tabla de conversiones del producto.
type ConversionNotFoundError struct {
	ProductID string
	FromUOM   string
	ToUOM     string
	Available []string
}

func (e *ConversionNotFoundError) Error() string {
	return fmt.Sprintf("no hay conversión de %s a %s para producto %s (unidades disponibles: %s)",
		e.FromUOM, e.ToUOM, e.ProductID, strings.Join(e.Available, ", "))
}

func (e *ConversionNotFoundError) Unwrap() error { return ErrConversionNotFound }

// InvalidConversionFactorError factor cero o negativo.
type InvalidConversionFactorError struct {
	ProductID string
	UOM       string
	Factor    decimal.Decimal
}

func (e *InvalidConversionFactorError) Error() string {
	return fmt.Sprintf("factor de conversión %s inválido para unidad %s del producto %s",
		e.Factor.String(), e.UOM, e.ProductID)
}

func (e *InvalidConversionFactorError) Unwrap() error { return ErrInvalidConversionFactor }

// InvalidStateError transición de estado no permitida (postear un POSTED, editar un POSTED, ...).
type InvalidStateError struct {
	Resource string
	ID       string
	Status   string
	Action   string
}

// NewInvalidStateError construye un InvalidStateError.
func NewInvalidStateError(resource, id, status, action string) *InvalidStateError {
	return &InvalidStateError{Resource: resource, ID: id, Status: status, Action: action}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("no se puede %s %s %s en estado %s", e.Action, e.Resource, e.ID, e.Status)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
