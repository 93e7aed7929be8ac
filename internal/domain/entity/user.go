package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin         = "admin"
	RoleVeterinario   = "veterinario"
	RoleRecepcionista = "recepcionista"
)

// User representa un usuario del sistema (pertenece a una Clinic).
type User struct {
	ID           string
	ClinicID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, veterinario, recepcionista
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
