package entity

import "time"

// Clinic representa la clínica veterinaria emisora de boletas (el Emisor del
// DTE). LastFolio es el contador desde el que se reservan folios consecutivos.
type Clinic struct {
	ID        string
	Name      string // razón social (RznSoc)
	RUT       string // RUT chileno, con o sin formato; se normaliza al usarlo
	Giro      string // giro comercial (GiroEmis)
	Acteco    string // código de actividad económica
	Address   string // DirOrigen
	Comuna    string // CmnaOrigen
	Phone     string
	Email     string
	LastFolio int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
