package venta

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EstadoPendiente  = "pendiente"
	EstadoCompletada = "completada"
	EstadoCancelada  = "cancelada"
)

func EstadoValido(s string) bool {
	switch s {
	case EstadoPendiente, EstadoCompletada, EstadoCancelada:
		return true
	}
	return false
}

// Venta is the sale header. The cliente/total-productos fields come from the
// ventas_resumen view and are only populated on reads through it.
type Venta struct {
	ID         int64           `json:"id"`
	ClienteID  int64           `json:"cliente_id"`
	Total      decimal.Decimal `json:"total"`
	Estado     string          `json:"estado"`
	FechaVenta time.Time       `json:"fecha_venta"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	ClienteNombre  string `json:"cliente_nombre,omitempty"`
	ClienteEmail   string `json:"cliente_email,omitempty"`
	TotalProductos int    `json:"total_productos,omitempty"`
}

// Detalle is one line of a venta. PrecioUnitario is snapshotted at sale time
// and never follows later product price changes.
type Detalle struct {
	ID             int64           `json:"id"`
	VentaID        int64           `json:"venta_id"`
	ProductoID     int64           `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CreatedAt      time.Time       `json:"created_at"`

	ProductoNombre string          `json:"producto_nombre,omitempty"`
	ProductoPrecio decimal.Decimal `json:"producto_precio"`
}

type ConDetalles struct {
	Venta
	Detalles []Detalle `json:"detalles"`
}

type Stats struct {
	TotalVentas       int             `json:"totalVentas"`
	TotalIngresos     decimal.Decimal `json:"totalIngresos"`
	VentasCompletadas int             `json:"ventasCompletadas"`
	VentasPendientes  int             `json:"ventasPendientes"`
	VentasCanceladas  int             `json:"ventasCanceladas"`
}
