// Package views projects models onto the JSON shapes clients receive.
package views

import (
	"time"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
)

// User never exposes the password hash or reset token.
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func RenderUser(u models.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func RenderUsers(users []models.User) []User {
	return renderMany(users, RenderUser)
}

func renderMany[M any, V any](items []M, render func(M) V) []V {
	out := make([]V, 0, len(items))
	for _, item := range items {
		out = append(out, render(item))
	}
	return out
}
