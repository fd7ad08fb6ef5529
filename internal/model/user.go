package model

// User roles understood by the role checks. Anything else is treated as a
// plain user.
const (
	RoleAdmin     = "admin"
	RoleDoctor    = "doctor"
	RoleNurse     = "nurse"
	RoleSecretary = "secretary"
	RoleUser      = "user"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	LastLogin    DateTime  `db:"last_login" json:"last_login"`
	CreatedAt    DateTime  `db:"created_at" json:"created_at"`
	UpdatedAt    DateTime  `db:"updated_at" json:"updated_at"`
}

// LoginHistory is an append-only record of login attempts.
type LoginHistory struct {
	ID        int64    `db:"id" json:"id"`
	UserID    int64    `db:"user_id" json:"user_id"`
	IPAddress string   `db:"ip_address" json:"ip_address"`
	UserAgent string   `db:"user_agent" json:"user_agent"`
	LoginTime DateTime `db:"login_time" json:"login_time"`
	Success   bool     `db:"success" json:"success"`
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,strongpassword"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Role      *string `json:"role"`
	Password  *string `json:"password"`
}

type UserFilters struct {
	Search  string
	Role    string
	Page    int
	PerPage int
}

type UserStats struct {
	TotalUsers   int `json:"total_users"`
	ActiveUsers  int `json:"active_users"`
	Admins       int `json:"admins"`
	Doctors      int `json:"doctors"`
	NewThisMonth int `json:"new_this_month"`
}
