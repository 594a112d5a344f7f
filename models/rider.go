package models

// Rider is a delivery rider. Name, village and phone are searchable from the admin dashboard.
type Rider struct {
	ID       int64   `db:"id" json:"id"`
	Username string  `db:"username" json:"username"`
	Name     string  `db:"name" json:"name"`
	Village  string  `db:"village" json:"village"`
	Phone    string  `db:"phone" json:"phone"`
	HomeLat  float64 `db:"home_lat" json:"home_lat"`
	HomeLng  float64 `db:"home_lng" json:"home_lng"`
	Active   bool    `db:"active" json:"active"`
}
