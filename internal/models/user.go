package models

import "golang.org/x/crypto/bcrypt"

// Stakeholder roles with access to the analytics dashboard.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
	RoleAssessor    = "assessor"
)

type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex"`
	Password string // bcrypt hash
	Role     string
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HashPassword returns the bcrypt hash for a plaintext password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
