package ventas

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
)

// Gateway is the slice of persistence the creation workflow needs. The repo
// implements it over an open transaction; tests substitute a fake.
type Gateway interface {
	// InsertVenta creates a pending header with total 0 and returns its id.
	InsertVenta(ctx context.Context, clienteID int64) (int64, error)
	// ProductoParaVenta returns the product's current price and stock,
	// locking the row for the rest of the transaction.
	ProductoParaVenta(ctx context.Context, productoID int64) (decimal.Decimal, int, error)
	InsertDetalle(ctx context.Context, ventaID, productoID int64, cantidad int, precioUnitario, subtotal decimal.Decimal) error
	DecrementarStock(ctx context.Context, productoID int64, cantidad int) error
	ActualizarTotal(ctx context.Context, ventaID int64, total decimal.Decimal) error
}

type LineaInput struct {
	ProductoID int64
	Cantidad   int
}

type CrearVentaInput struct {
	ClienteID int64
	Detalles  []LineaInput
}

// crearVenta runs the whole sale-creation sequence against g. The caller owns
// the transaction; any returned error must abort it so no header or partial
// detalle survives a failed line.
func crearVenta(ctx context.Context, g Gateway, in CrearVentaInput, decrementStock bool) (int64, error) {
	ventaID, err := g.InsertVenta(ctx, in.ClienteID)
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, linea := range in.Detalles {
		precio, stock, err := g.ProductoParaVenta(ctx, linea.ProductoID)
		if err != nil {
			return 0, err
		}
		if stock < linea.Cantidad {
			return 0, apperr.Domainf("Stock insuficiente para el producto %d", linea.ProductoID)
		}

		subtotal := precio.Mul(decimal.NewFromInt(int64(linea.Cantidad)))
		total = total.Add(subtotal)

		if err := g.InsertDetalle(ctx, ventaID, linea.ProductoID, linea.Cantidad, precio, subtotal); err != nil {
			return 0, err
		}
		if decrementStock {
			if err := g.DecrementarStock(ctx, linea.ProductoID, linea.Cantidad); err != nil {
				return 0, err
			}
		}
	}

	if err := g.ActualizarTotal(ctx, ventaID, total); err != nil {
		return 0, err
	}
	return ventaID, nil
}
