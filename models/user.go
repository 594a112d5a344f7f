package models

// Role distinguishes customers from back-office admins in the `users` table.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is a storefront customer or an admin.
// Riders live in their own table (see Rider) because they carry a wallet and a location.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Role     Role   `db:"role" json:"role"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
