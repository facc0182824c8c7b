package producto

import (
	"time"

	"github.com/shopspring/decimal"
)

type Producto struct {
	ID          int64           `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion,omitempty"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	CategoriaID int64           `json:"categoria_id"`
	// Categoria is the owning category's name, joined at read time.
	Categoria string    `json:"categoria_nombre,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
