package cliente

import "time"

type Cliente struct {
	ID        int64     `json:"id"`
	Nombre    string    `json:"nombre"`
	Email     string    `json:"email"`
	Telefono  string    `json:"telefono,omitempty"`
	Direccion string    `json:"direccion,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
