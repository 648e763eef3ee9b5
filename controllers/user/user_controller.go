package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/enthr/ishop-mern/middlewares"
	"github.com/enthr/ishop-mern/models"
	"github.com/enthr/ishop-mern/responses"
	"github.com/enthr/ishop-mern/store"
	"github.com/enthr/ishop-mern/token"
)

var validate = validator.New()

type UserController struct {
	users  store.UserStore
	issuer *token.Issuer
}

func NewUserController(users store.UserStore, issuer *token.Issuer) *UserController {
	return &UserController{users: users, issuer: issuer}
}

type signUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name     string `json:"name" validate:"omitempty"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type adminUpdateUserRequest struct {
	Name    string `json:"name" validate:"omitempty"`
	Email   string `json:"email" validate:"omitempty,email"`
	IsAdmin bool   `json:"isAdmin"`
}

func identityPayload(user models.User, tok string) fiber.Map {
	return fiber.Map{
		"id":      user.Id.Hex(),
		"name":    user.Name,
		"email":   user.Email,
		"isAdmin": user.IsAdmin,
		"token":   tok,
	}
}

// SignUp registers a new user and signs them in.
func (uc *UserController) SignUp(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody signUpRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid user data")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqBody.Password), bcrypt.DefaultCost)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error hashing password")
	}

	newUser := models.User{
		Id:       primitive.NewObjectID(),
		Name:     reqBody.Name,
		Email:    reqBody.Email,
		Password: string(hashedPassword),
	}

	newUser, err = uc.users.Insert(ctx, newUser)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return responses.Error(c, fiber.StatusBadRequest, "User already exists")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error in saving user, please try again later")
	}

	tok, err := uc.issuer.Issue(newUser.Id.Hex())
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error while generating token")
	}

	return responses.OK(c, fiber.StatusCreated, "User created successfully", fiber.Map{
		"data": identityPayload(newUser, tok),
	})
}

// SignIn authenticates with email and password. The failure message is
// deliberately identical for an unknown email and a wrong password.
func (uc *UserController) SignIn(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody signInRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid user data")
	}

	existingUser, err := uc.users.FindByEmail(ctx, reqBody.Email)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching from database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(reqBody.Password)); err != nil {
		return responses.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	tok, err := uc.issuer.Issue(existingUser.Id.Hex())
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error while generating token")
	}

	return responses.OK(c, fiber.StatusOK, "User signed in successfully", fiber.Map{
		"data": identityPayload(existingUser, tok),
	})
}

// GetProfile returns the authenticated user's own record.
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	return responses.OK(c, fiber.StatusOK, "Fetched profile", fiber.Map{
		"data": fiber.Map{
			"id":      user.Id.Hex(),
			"name":    user.Name,
			"email":   user.Email,
			"isAdmin": user.IsAdmin,
		},
	})
}

// UpdateProfile updates the caller's own record. Omitted fields keep
// their previous values; a present password is re-hashed.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody updateProfileRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid user data")
	}

	user := middlewares.CurrentUser(c)

	if reqBody.Name != "" {
		user.Name = reqBody.Name
	}
	if reqBody.Email != "" {
		user.Email = reqBody.Email
	}
	if reqBody.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqBody.Password), bcrypt.DefaultCost)
		if err != nil {
			return responses.Error(c, fiber.StatusInternalServerError, "Error hashing password")
		}
		user.Password = string(hashedPassword)
	}

	updatedUser, err := uc.users.Update(ctx, user)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error updating user")
	}

	tok, err := uc.issuer.Issue(updatedUser.Id.Hex())
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error while generating token")
	}

	return responses.OK(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{
		"data": identityPayload(updatedUser, tok),
	})
}

// ListUsers returns every user. Admin only.
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	users, err := uc.users.List(ctx)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching users")
	}

	return responses.OK(c, fiber.StatusOK, "Fetched users", fiber.Map{
		"users": users,
	})
}

// GetUserById returns a single user. Admin only.
func (uc *UserController) GetUserById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid user ID format")
	}

	user, err := uc.users.FindByID(ctx, userId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching user")
	}

	return responses.OK(c, fiber.StatusOK, "Fetched user", fiber.Map{
		"user": user,
	})
}

// UpdateUser edits any user, including the admin flag. Admin only.
// Nothing stops an admin from revoking their own flag.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid user ID format")
	}

	var reqBody adminUpdateUserRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid user data")
	}

	user, err := uc.users.FindByID(ctx, userId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching user")
	}

	if reqBody.Name != "" {
		user.Name = reqBody.Name
	}
	if reqBody.Email != "" {
		user.Email = reqBody.Email
	}
	user.IsAdmin = reqBody.IsAdmin

	updatedUser, err := uc.users.Update(ctx, user)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error updating user")
	}

	return responses.OK(c, fiber.StatusOK, "User updated successfully", fiber.Map{
		"user": updatedUser,
	})
}

// DeleteUser removes a user. Admin only.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid user ID format")
	}

	err = uc.users.Delete(ctx, userId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error deleting user")
	}

	return responses.OK(c, fiber.StatusOK, "User removed", fiber.Map{})
}
