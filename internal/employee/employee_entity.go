package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a portal account. EmployeeID is the human-facing badge
// number (EMP-0001), distinct from the primary key.
type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   string    `gorm:"uniqueIndex:uq_employee_badge"`
	Name         string
	Email        string `gorm:"uniqueIndex:uq_employee_email"`
	Department   string
	Position     string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
