// Package store holds the persistence contracts for users, products
// and orders, plus the Mongo and in-memory implementations.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/enthr/ishop-mern/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserStore interface {
	Insert(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.User, error)
}

type ProductStore interface {
	// Search matches keyword case-insensitively against product names.
	// An empty keyword matches everything. It returns the requested
	// window plus the total match count.
	Search(ctx context.Context, keyword string, skip, limit int64) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Insert(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// TopRated returns up to limit products by descending rating, ties
	// kept in storage order.
	TopRated(ctx context.Context, limit int64) ([]models.Product, error)
}

type OrderStore interface {
	Insert(ctx context.Context, order models.Order) (models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	// ListWithUsers returns every order with the owning user's name and
	// email joined in.
	ListWithUsers(ctx context.Context) ([]models.OrderWithUser, error)
	Update(ctx context.Context, order models.Order) (models.Order, error)
}
