package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"aimpact-messaging/internal/domain/user"
)

type seedUser struct {
	Email    string
	Password string
	Name     string
	Role     string
}

var seedUsers = []seedUser{
	{"admin@aimpact.com", "Admin@123", "Admin User", "admin"},
	{"frontend@aimpact.com", "Frontend@123", "Frontend Developer", "frontend"},
	{"medical@aimpact.com", "Medical@123", "Medical Advisor", "medical"},
	{"designer@aimpact.com", "Designer@123", "UI/UX Designer", "designer"},
	{"java@aimpact.com", "Java@123", "Java Developer", "java"},
	{"database@aimpact.com", "Database@123", "Database Admin", "database"},
	{"homeo@aimpact.com", "Homeo@123", "Homeo Advisor", "homeo"},
}

// Seed inserts the initial user directory. It only runs against an empty
// users table, so restarts never duplicate or reset accounts.
func Seed() error {
	var count int64
	if err := DB.Model(&user.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	users := make([]user.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.Email, err)
		}
		users = append(users, user.User{
			ID:           uuid.New(),
			Email:        su.Email,
			PasswordHash: string(hash),
			Name:         su.Name,
			Role:         su.Role,
			Avatar:       avatarURL(su.Name),
			IsOnline:     false,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := DB.Create(&users).Error; err != nil {
		return fmt.Errorf("insert seed users: %w", err)
	}
	return nil
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + strings.ReplaceAll(name, " ", "+") + "&background=random"
}
