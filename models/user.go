package models

import (
	"time"

	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"
)

/************************************************
/**** MARK: USER ROLES ****/
/************************************************/
const USER_ROLE_USER = "user"
const USER_ROLE_SUPERADMIN = "superadmin"

/************************************************
/**** MARK: USER STATUS ****/
/************************************************/
const USER_STATUS_AVAILABLE = 0
const USER_STATUS_BLOCKED = 2

// User representa um corretor (tenant) no sistema.
// Todo dado de negócio (leads, conversas, apólices...) é escopado por user_id.
type User struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null" json:"name" form:"name"`
	Email     string     `gorm:"not null;unique" json:"email" form:"email"`
	Password  string     `gorm:"not null" json:"password,omitempty" form:"password"`
	Phone     string     `gorm:"default:''" json:"phone" form:"phone"`
	Company   string     `gorm:"default:''" json:"company" form:"company"`
	Role      string     `gorm:"not null;default:'user'" json:"role"`
	Status    int        `gorm:"default:0" json:"status"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (user User) IsSuperadmin() bool {
	return user.Role == USER_ROLE_SUPERADMIN
}

func (user User) MissingFields() string {
	if user.Name == "" {
		return "name"
	} else if user.Email == "" {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if tools.CheckPassword(user.Password) != "" {
		return tools.CheckPassword(user.Password)
	}
	return ""
}

// ValidUserRole valida o papel antes de qualquer mutação de role (admin).
func ValidUserRole(role string) bool {
	return role == USER_ROLE_USER || role == USER_ROLE_SUPERADMIN
}
