package clientes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/cliente"
)

const uniqueViolation = "23505"

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const clienteCols = "id, nombre, email, COALESCE(telefono,''), COALESCE(direccion,''), created_at, updated_at"

func scanCliente(row pgx.Row) (cliente.Cliente, error) {
	var cl cliente.Cliente
	err := row.Scan(&cl.ID, &cl.Nombre, &cl.Email, &cl.Telefono, &cl.Direccion, &cl.CreatedAt, &cl.UpdatedAt)
	return cl, err
}

func (r *Repo) List(ctx context.Context, page, limit int) ([]cliente.Cliente, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM clientes`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+clienteCols+`
		FROM clientes
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []cliente.Cliente{}
	for rows.Next() {
		cl, err := scanCliente(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, cl)
	}
	return out, total, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (cliente.Cliente, error) {
	cl, err := scanCliente(r.db.QueryRow(ctx, `
		SELECT `+clienteCols+` FROM clientes WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return cliente.Cliente{}, apperr.ErrNotFound
	}
	return cl, err
}

type CreateInput struct {
	Nombre    string
	Email     string
	Telefono  string
	Direccion string
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (cliente.Cliente, error) {
	cl, err := scanCliente(r.db.QueryRow(ctx, `
		INSERT INTO clientes (nombre, email, telefono, direccion)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''))
		RETURNING `+clienteCols+`
	`, in.Nombre, in.Email, in.Telefono, in.Direccion))
	if isUnique(err) {
		return cliente.Cliente{}, apperr.Conflict("Email already exists")
	}
	return cl, err
}

type UpdateInput struct {
	Nombre    *string
	Email     *string
	Telefono  *string
	Direccion *string
}

func (r *Repo) Update(ctx context.Context, id int64, in UpdateInput) (cliente.Cliente, error) {
	cl, err := scanCliente(r.db.QueryRow(ctx, `
		UPDATE clientes
		SET
		  nombre    = COALESCE($2, nombre),
		  email     = COALESCE($3, email),
		  telefono  = COALESCE($4, telefono),
		  direccion = COALESCE($5, direccion),
		  updated_at = now()
		WHERE id = $1
		RETURNING `+clienteCols+`
	`, id, in.Nombre, in.Email, in.Telefono, in.Direccion))
	if errors.Is(err, pgx.ErrNoRows) {
		return cliente.Cliente{}, apperr.ErrNotFound
	}
	if isUnique(err) {
		return cliente.Cliente{}, apperr.Conflict("Email already exists")
	}
	return cl, err
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *Repo) Search(ctx context.Context, term string, page, limit int) ([]cliente.Cliente, int64, error) {
	pattern := "%" + term + "%"

	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM clientes WHERE nombre ILIKE $1 OR email ILIKE $1
	`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+clienteCols+`
		FROM clientes
		WHERE nombre ILIKE $1 OR email ILIKE $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, pattern, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []cliente.Cliente{}
	for rows.Next() {
		cl, err := scanCliente(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, cl)
	}
	return out, total, rows.Err()
}

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
