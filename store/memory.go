package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/enthr/ishop-mern/models"
)

// Memory keeps every collection in process with the same observable
// semantics as the Mongo stores. The tests run against it.
type Memory struct {
	mu       sync.Mutex
	users    []models.User
	products []models.Product
	orders   []models.Order
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Users() UserStore       { return &memoryUsers{m} }
func (m *Memory) Products() ProductStore { return &memoryProducts{m} }
func (m *Memory) Orders() OrderStore     { return &memoryOrders{m} }

type memoryUsers struct{ m *Memory }

func (s *memoryUsers) Insert(_ context.Context, user models.User) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == user.Email {
			return models.User{}, ErrDuplicateEmail
		}
	}
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	s.m.users = append(s.m.users, user)
	return user, nil
}

func (s *memoryUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Id == id {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *memoryUsers) Update(_ context.Context, user models.User) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, u := range s.m.users {
		if u.Id == user.Id {
			s.m.users[i] = user
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *memoryUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, u := range s.m.users {
		if u.Id == id {
			s.m.users = append(s.m.users[:i], s.m.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *memoryUsers) List(_ context.Context) ([]models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]models.User, len(s.m.users))
	copy(out, s.m.users)
	return out, nil
}

type memoryProducts struct{ m *Memory }

func (s *memoryProducts) Search(_ context.Context, keyword string, skip, limit int64) ([]models.Product, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var matches []models.Product
	needle := strings.ToLower(keyword)
	for _, p := range s.m.products {
		if keyword == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
	}
	total := int64(len(matches))
	if skip >= total {
		return []models.Product{}, total, nil
	}
	matches = matches[skip:]
	if limit < int64(len(matches)) {
		matches = matches[:limit]
	}
	out := make([]models.Product, len(matches))
	copy(out, matches)
	return out, total, nil
}

func (s *memoryProducts) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, p := range s.m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (s *memoryProducts) Insert(_ context.Context, product models.Product) (models.Product, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	s.m.products = append(s.m.products, product)
	return product, nil
}

func (s *memoryProducts) Update(_ context.Context, product models.Product) (models.Product, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, p := range s.m.products {
		if p.ID == product.ID {
			s.m.products[i] = product
			return product, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (s *memoryProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, p := range s.m.products {
		if p.ID == id {
			s.m.products = append(s.m.products[:i], s.m.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *memoryProducts) TopRated(_ context.Context, limit int64) ([]models.Product, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]models.Product, len(s.m.products))
	copy(out, s.m.products)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

type memoryOrders struct{ m *Memory }

func (s *memoryOrders) Insert(_ context.Context, order models.Order) (models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.m.orders = append(s.m.orders, order)
	return order, nil
}

func (s *memoryOrders) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, o := range s.m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (s *memoryOrders) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.m.orders {
		if o.User == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memoryOrders) ListWithUsers(_ context.Context) ([]models.OrderWithUser, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.OrderWithUser{}
	for _, o := range s.m.orders {
		joined := models.OrderWithUser{Order: o}
		for _, u := range s.m.users {
			if u.Id == o.User {
				joined.Owner = models.UserSummary{Id: u.Id, Name: u.Name, Email: u.Email}
				break
			}
		}
		out = append(out, joined)
	}
	return out, nil
}

func (s *memoryOrders) Update(_ context.Context, order models.Order) (models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, o := range s.m.orders {
		if o.ID == order.ID {
			s.m.orders[i] = order
			return order, nil
		}
	}
	return models.Order{}, ErrNotFound
}
