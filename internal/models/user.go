package models

// UserRole distinguishes administrators from regular staff accounts.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User is a staff account. Password holds the bcrypt hash and is never
// serialised.
type User struct {
	ID        int64    `db:"id" json:"id"`
	Username  string   `db:"username" json:"username"`
	Password  string   `db:"password" json:"-"`
	Role      UserRole `db:"role" json:"role"`
	Status    int      `db:"status" json:"-"`
	LastLogin *string  `db:"last_login" json:"lastLogin"`
}

// StatusLabel maps the stored integer flag onto the API's string form.
func (u *User) StatusLabel() string {
	if u.Status == 0 {
		return "inactive"
	}
	return "active"
}

// UserView is the list/detail representation exposed by the API.
type UserView struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Role      UserRole `json:"role"`
	Status    string   `json:"status"`
	LastLogin *string  `json:"lastLogin"`
}

// View converts the stored row into its API representation.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Status:    u.StatusLabel(),
		LastLogin: u.LastLogin,
	}
}
