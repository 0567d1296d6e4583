package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет пользователя в системе.
// Хранение пользователей — внешний по отношению к ядру попыток контур;
// здесь достаточно полей для аутентификации и разрешения ролей.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Email         string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password      string     `gorm:"size:100;not null" json:"-"`
	FullName      string     `gorm:"size:100;not null;default:''" json:"full_name"`
	Qualification string     `gorm:"size:100;not null;default:''" json:"qualification"`
	DateOfBirth   *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Role          string     `gorm:"size:20;not null;default:'user'" json:"-"` // "user" или "admin"
	LastActivity  time.Time  `gorm:"not null" json:"last_activity"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Caller — идентичность вызывающей стороны, разрешённая из токена доступа.
// Передаётся в ядро попыток через request context.
type Caller struct {
	UserID uint
	Role   string
}

// IsAdmin проверяет, обладает ли caller правами администратора
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
