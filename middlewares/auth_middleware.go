package middlewares

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/enthr/ishop-mern/models"
	"github.com/enthr/ishop-mern/responses"
	"github.com/enthr/ishop-mern/store"
	"github.com/enthr/ishop-mern/token"
)

// UserKey is the Locals key Protect stores the resolved user under.
const UserKey = "user"

type Auth struct {
	users  store.UserStore
	issuer *token.Issuer
}

func NewAuth(users store.UserStore, issuer *token.Issuer) *Auth {
	return &Auth{users: users, issuer: issuer}
}

// Protect resolves the bearer credential to a user record. There is no
// guest fallback: a missing, malformed or unverifiable token rejects
// the request.
func (a *Auth) Protect(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return responses.Error(c, fiber.StatusUnauthorized, "No auth token, access denied")
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
		return responses.Error(c, fiber.StatusUnauthorized, "Invalid authorization header format")
	}

	userId, err := a.issuer.Verify(bearerToken[1])
	if err != nil {
		return responses.Error(c, fiber.StatusUnauthorized, "Token verification failed, access denied")
	}

	objectId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return responses.Error(c, fiber.StatusUnauthorized, "Token verification failed, access denied")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := a.users.FindByID(ctx, objectId)
	if err != nil {
		return responses.Error(c, fiber.StatusUnauthorized, "Token verification failed, access denied")
	}

	c.Locals(UserKey, user)

	return c.Next()
}

// RequireAdmin composes after Protect and rejects non-admin users.
func (a *Auth) RequireAdmin(c *fiber.Ctx) error {
	user, ok := c.Locals(UserKey).(models.User)
	if !ok || !user.IsAdmin {
		return responses.Error(c, fiber.StatusUnauthorized, "Not an admin")
	}
	return c.Next()
}

// CurrentUser reads the user Protect stored on the request.
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals(UserKey).(models.User)
	return user
}
