package domain

import "time"

type UserRole string

const (
	UserRoleAdmin     UserRole = "Admin"
	UserRoleDonor     UserRole = "Donor"
	UserRoleRecipient UserRole = "Recipient"
)

type User struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
