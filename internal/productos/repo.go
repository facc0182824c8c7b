package productos

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/producto"
)

const fkViolation = "23503"

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Every read joins categorias so responses carry the category name.
const productoSelect = `
	SELECT p.id, p.nombre, COALESCE(p.descripcion,''), p.precio, p.stock,
	       p.categoria_id, c.nombre, p.created_at, p.updated_at
	FROM productos p
	JOIN categorias c ON c.id = p.categoria_id
`

func scanProducto(row pgx.Row) (producto.Producto, error) {
	var p producto.Producto
	err := row.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Precio, &p.Stock,
		&p.CategoriaID, &p.Categoria, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) List(ctx context.Context, page, limit int) ([]producto.Producto, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM productos`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, productoSelect+`
		ORDER BY p.created_at DESC
		OFFSET $1 LIMIT $2
	`, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []producto.Producto{}
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (producto.Producto, error) {
	p, err := scanProducto(r.db.QueryRow(ctx, productoSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return producto.Producto{}, apperr.ErrNotFound
	}
	return p, err
}

type CreateInput struct {
	Nombre      string
	Descripcion string
	Precio      decimal.Decimal
	Stock       int
	CategoriaID int64
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (producto.Producto, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO productos (nombre, descripcion, precio, stock, categoria_id)
		VALUES ($1, NULLIF($2,''), $3, $4, $5)
		RETURNING id
	`, in.Nombre, in.Descripcion, in.Precio, in.Stock, in.CategoriaID).Scan(&id)
	if isFK(err) {
		return producto.Producto{}, apperr.Domainf("Categoria %d no encontrada", in.CategoriaID)
	}
	if err != nil {
		return producto.Producto{}, err
	}
	return r.Get(ctx, id)
}

type UpdateInput struct {
	Nombre      *string
	Descripcion *string
	Precio      *decimal.Decimal
	Stock       *int
	CategoriaID *int64
}

func (r *Repo) Update(ctx context.Context, id int64, in UpdateInput) (producto.Producto, error) {
	var updated int64
	err := r.db.QueryRow(ctx, `
		UPDATE productos
		SET
		  nombre       = COALESCE($2, nombre),
		  descripcion  = COALESCE($3, descripcion),
		  precio       = COALESCE($4, precio),
		  stock        = COALESCE($5, stock),
		  categoria_id = COALESCE($6, categoria_id),
		  updated_at   = now()
		WHERE id = $1
		RETURNING id
	`, id, in.Nombre, in.Descripcion, in.Precio, in.Stock, in.CategoriaID).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return producto.Producto{}, apperr.ErrNotFound
	}
	if isFK(err) && in.CategoriaID != nil {
		return producto.Producto{}, apperr.Domainf("Categoria %d no encontrada", *in.CategoriaID)
	}
	if err != nil {
		return producto.Producto{}, err
	}
	return r.Get(ctx, updated)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *Repo) Search(ctx context.Context, term string, page, limit int) ([]producto.Producto, int64, error) {
	pattern := "%" + term + "%"

	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM productos WHERE nombre ILIKE $1 OR descripcion ILIKE $1
	`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, productoSelect+`
		WHERE p.nombre ILIKE $1 OR p.descripcion ILIKE $1
		ORDER BY p.created_at DESC
		OFFSET $2 LIMIT $3
	`, pattern, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []producto.Producto{}
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func isFK(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == fkViolation
}
