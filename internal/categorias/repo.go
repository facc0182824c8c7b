package categorias

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcolopzx/sis-ventas/internal/apperr"
	"github.com/marcolopzx/sis-ventas/internal/domain/categoria"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const categoriaCols = "id, nombre, COALESCE(descripcion,''), created_at, updated_at"

func scanCategoria(row pgx.Row) (categoria.Categoria, error) {
	var cat categoria.Categoria
	err := row.Scan(&cat.ID, &cat.Nombre, &cat.Descripcion, &cat.CreatedAt, &cat.UpdatedAt)
	return cat, err
}

func (r *Repo) List(ctx context.Context, page, limit int) ([]categoria.Categoria, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM categorias`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+categoriaCols+`
		FROM categorias
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []categoria.Categoria{}
	for rows.Next() {
		cat, err := scanCategoria(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, cat)
	}
	return out, total, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (categoria.Categoria, error) {
	cat, err := scanCategoria(r.db.QueryRow(ctx, `
		SELECT `+categoriaCols+` FROM categorias WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return categoria.Categoria{}, apperr.ErrNotFound
	}
	return cat, err
}

type CreateInput struct {
	Nombre      string
	Descripcion string
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (categoria.Categoria, error) {
	return scanCategoria(r.db.QueryRow(ctx, `
		INSERT INTO categorias (nombre, descripcion)
		VALUES ($1, NULLIF($2,''))
		RETURNING `+categoriaCols+`
	`, in.Nombre, in.Descripcion))
}

type UpdateInput struct {
	Nombre      *string
	Descripcion *string
}

func (r *Repo) Update(ctx context.Context, id int64, in UpdateInput) (categoria.Categoria, error) {
	cat, err := scanCategoria(r.db.QueryRow(ctx, `
		UPDATE categorias
		SET
		  nombre      = COALESCE($2, nombre),
		  descripcion = COALESCE($3, descripcion),
		  updated_at  = now()
		WHERE id = $1
		RETURNING `+categoriaCols+`
	`, id, in.Nombre, in.Descripcion))
	if errors.Is(err, pgx.ErrNoRows) {
		return categoria.Categoria{}, apperr.ErrNotFound
	}
	return cat, err
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categorias WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *Repo) Search(ctx context.Context, term string, page, limit int) ([]categoria.Categoria, int64, error) {
	pattern := "%" + term + "%"

	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM categorias WHERE nombre ILIKE $1 OR descripcion ILIKE $1
	`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+categoriaCols+`
		FROM categorias
		WHERE nombre ILIKE $1 OR descripcion ILIKE $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, pattern, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []categoria.Categoria{}
	for rows.Next() {
		cat, err := scanCategoria(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, cat)
	}
	return out, total, rows.Err()
}
