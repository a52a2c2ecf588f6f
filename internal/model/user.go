package model

const (
	RoleGeneral = 0
	RoleAdmin   = 2
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"unique"`
	PwdHash  string `json:"-"`
	Role     int    `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
