package ventas

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/venta"
)

const fkViolation = "23503"

type Repo struct {
	db *pgxpool.Pool

	// decrementStock mirrors config.DecrementStock; the stock check always
	// runs, the decrement only when this is set.
	decrementStock bool
}

func NewRepo(db *pgxpool.Pool, decrementStock bool) *Repo {
	return &Repo{db: db, decrementStock: decrementStock}
}

// resumenCols reads from the ventas_resumen view (header joined with client
// name/email and line count).
const resumenCols = `
	id, cliente_id, total, estado, fecha_venta, created_at, updated_at,
	cliente_nombre, cliente_email, total_productos
`

func scanResumen(row pgx.Row) (venta.Venta, error) {
	var v venta.Venta
	err := row.Scan(&v.ID, &v.ClienteID, &v.Total, &v.Estado, &v.FechaVenta,
		&v.CreatedAt, &v.UpdatedAt, &v.ClienteNombre, &v.ClienteEmail, &v.TotalProductos)
	return v, err
}

func (r *Repo) collectResumen(ctx context.Context, where string, args ...any) ([]venta.Venta, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+resumenCols+`
		FROM ventas_resumen
		`+where+`
		ORDER BY fecha_venta DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []venta.Venta{}
	for rows.Next() {
		v, err := scanResumen(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) ListAll(ctx context.Context) ([]venta.Venta, error) {
	return r.collectResumen(ctx, "")
}

func (r *Repo) ListByCliente(ctx context.Context, clienteID int64) ([]venta.Venta, error) {
	return r.collectResumen(ctx, "WHERE cliente_id = $1", clienteID)
}

func (r *Repo) ListByEstado(ctx context.Context, estado string) ([]venta.Venta, error) {
	return r.collectResumen(ctx, "WHERE estado = $1", estado)
}

func (r *Repo) Get(ctx context.Context, id int64) (venta.ConDetalles, error) {
	head, err := scanResumen(r.db.QueryRow(ctx, `
		SELECT `+resumenCols+` FROM ventas_resumen WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return venta.ConDetalles{}, apperr.ErrNotFound
	}
	if err != nil {
		return venta.ConDetalles{}, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT d.id, d.venta_id, d.producto_id, d.cantidad, d.precio_unitario,
		       d.subtotal, d.created_at, p.nombre, p.precio
		FROM detalles_venta d
		JOIN productos p ON p.id = d.producto_id
		WHERE d.venta_id = $1
		ORDER BY d.id ASC
	`, id)
	if err != nil {
		return venta.ConDetalles{}, err
	}
	defer rows.Close()

	out := venta.ConDetalles{Venta: head, Detalles: []venta.Detalle{}}
	for rows.Next() {
		var d venta.Detalle
		if err := rows.Scan(&d.ID, &d.VentaID, &d.ProductoID, &d.Cantidad, &d.PrecioUnitario,
			&d.Subtotal, &d.CreatedAt, &d.ProductoNombre, &d.ProductoPrecio); err != nil {
			return venta.ConDetalles{}, err
		}
		out.Detalles = append(out.Detalles, d)
	}
	return out, rows.Err()
}

// Create runs the whole workflow in one transaction: a failed line rolls back
// the header and every detalle inserted before it.
func (r *Repo) Create(ctx context.Context, in CrearVentaInput) (venta.ConDetalles, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return venta.ConDetalles{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ventaID, err := crearVenta(ctx, &txGateway{tx: tx}, in, r.decrementStock)
	if err != nil {
		return venta.ConDetalles{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return venta.ConDetalles{}, err
	}
	return r.Get(ctx, ventaID)
}

func (r *Repo) UpdateEstado(ctx context.Context, id int64, estado string) (venta.Venta, error) {
	var v venta.Venta
	err := r.db.QueryRow(ctx, `
		UPDATE ventas
		SET estado = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, cliente_id, total, estado, fecha_venta, created_at, updated_at
	`, id, estado).Scan(&v.ID, &v.ClienteID, &v.Total, &v.Estado, &v.FechaVenta, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return venta.Venta{}, apperr.ErrNotFound
	}
	return v, err
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ventas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Stats walks every summary row; linear in total sale count on purpose.
func (r *Repo) Stats(ctx context.Context) (venta.Stats, error) {
	rows, err := r.db.Query(ctx, `SELECT total, estado FROM ventas_resumen`)
	if err != nil {
		return venta.Stats{}, err
	}
	defer rows.Close()

	s := venta.Stats{TotalIngresos: decimal.Zero}
	for rows.Next() {
		var total decimal.Decimal
		var estado string
		if err := rows.Scan(&total, &estado); err != nil {
			return venta.Stats{}, err
		}
		s.TotalVentas++
		s.TotalIngresos = s.TotalIngresos.Add(total)
		switch estado {
		case venta.EstadoCompletada:
			s.VentasCompletadas++
		case venta.EstadoPendiente:
			s.VentasPendientes++
		case venta.EstadoCancelada:
			s.VentasCanceladas++
		}
	}
	return s, rows.Err()
}

// txGateway adapts an open pgx transaction to the workflow's Gateway.
type txGateway struct {
	tx pgx.Tx
}

func (g *txGateway) InsertVenta(ctx context.Context, clienteID int64) (int64, error) {
	var id int64
	err := g.tx.QueryRow(ctx, `
		INSERT INTO ventas (cliente_id, total, estado)
		VALUES ($1, 0, $2)
		RETURNING id
	`, clienteID, venta.EstadoPendiente).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
		return 0, apperr.Domainf("Cliente %d no encontrado", clienteID)
	}
	return id, err
}

func (g *txGateway) ProductoParaVenta(ctx context.Context, productoID int64) (decimal.Decimal, int, error) {
	var precio decimal.Decimal
	var stock int
	err := g.tx.QueryRow(ctx, `
		SELECT precio, stock FROM productos WHERE id = $1 FOR UPDATE
	`, productoID).Scan(&precio, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, 0, apperr.Domainf("Producto %d no encontrado", productoID)
	}
	return precio, stock, err
}

func (g *txGateway) InsertDetalle(ctx context.Context, ventaID, productoID int64, cantidad int, precioUnitario, subtotal decimal.Decimal) error {
	_, err := g.tx.Exec(ctx, `
		INSERT INTO detalles_venta (venta_id, producto_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5)
	`, ventaID, productoID, cantidad, precioUnitario, subtotal)
	return err
}

func (g *txGateway) DecrementarStock(ctx context.Context, productoID int64, cantidad int) error {
	_, err := g.tx.Exec(ctx, `
		UPDATE productos SET stock = stock - $2, updated_at = now() WHERE id = $1
	`, productoID, cantidad)
	return err
}

func (g *txGateway) ActualizarTotal(ctx context.Context, ventaID int64, total decimal.Decimal) error {
	_, err := g.tx.Exec(ctx, `
		UPDATE ventas SET total = $2, updated_at = now() WHERE id = $1
	`, ventaID, total)
	return err
}
