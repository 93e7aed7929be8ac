package entity

import "time"

// Tutor representa al tutor de la mascota: el receptor opcional de la boleta.
type Tutor struct {
	ID        string
	ClinicID  string
	Name      string
	RUT       string // RUT del tutor; puede ir vacío (boleta sin receptor)
	Address   string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
