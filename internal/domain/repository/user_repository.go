package repository

import "github.com/tu-usuario/cotizador-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(user *entity.User) error
	FindByID(id string) (*entity.User, error)
	// FindByEmail retorna (nil, nil) si el usuario no existe.
	FindByEmail(email string) (*entity.User, error)
}
