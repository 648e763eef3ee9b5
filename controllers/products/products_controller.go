package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/enthr/ishop-mern/middlewares"
	"github.com/enthr/ishop-mern/models"
	"github.com/enthr/ishop-mern/responses"
	"github.com/enthr/ishop-mern/store"
)

const pageSize = 10
const topRatedLimit = 3

var validate = validator.New()

type ProductController struct {
	products store.ProductStore
}

func NewProductController(products store.ProductStore) *ProductController {
	return &ProductController{products: products}
}

type updateProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
	Description  string  `json:"description"`
}

type createReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment"`
}

// GetAllProducts lists products with an optional case-insensitive
// keyword match on the name, ten per page.
func (pc *ProductController) GetAllProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	keyword := c.Query("keyword")
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	skip := (page - 1) * pageSize

	products, total, err := pc.products.Search(ctx, keyword, skip, pageSize)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching products")
	}

	pages := (total + pageSize - 1) / pageSize

	return responses.OK(c, fiber.StatusOK, "Fetched products", fiber.Map{
		"products": products,
		"page":     page,
		"pages":    pages,
	})
}

// GetTopProducts returns the three highest rated products.
func (pc *ProductController) GetTopProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	products, err := pc.products.TopRated(ctx, topRatedLimit)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching products")
	}

	return responses.OK(c, fiber.StatusOK, "Fetched top products", fiber.Map{
		"products": products,
	})
}

func (pc *ProductController) GetProductById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product ID format")
	}

	product, err := pc.products.FindByID(ctx, productId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching product")
	}

	return responses.OK(c, fiber.StatusOK, "Fetched product", fiber.Map{
		"product": product,
	})
}

// CreateProduct inserts a placeholder record owned by the requesting
// admin, meant to be edited right after.
func (pc *ProductController) CreateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user := middlewares.CurrentUser(c)

	product := models.Product{
		ID:           primitive.NewObjectID(),
		User:         user.Id,
		Name:         "Sample Name",
		Price:        0,
		Image:        "/images/sample.jpg",
		Brand:        "Sample Brand",
		Category:     "Sample Category",
		CountInStock: 0,
		Description:  "Sample Description",
		Reviews:      []models.Review{},
	}

	product, err := pc.products.Insert(ctx, product)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error inserting product")
	}

	return responses.OK(c, fiber.StatusCreated, "Product added successfully", fiber.Map{
		"product": product,
	})
}

// UpdateProduct edits a product. The route is admin only and the
// handler additionally requires the caller to be the record's creator,
// so other admins are rejected.
func (pc *ProductController) UpdateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product ID format")
	}

	var reqBody updateProductRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product data")
	}

	product, err := pc.products.FindByID(ctx, productId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching product")
	}

	user := middlewares.CurrentUser(c)
	if product.User != user.Id {
		return responses.Error(c, fiber.StatusUnauthorized, "You are not authorized to edit this product")
	}

	product.Name = reqBody.Name
	product.Price = reqBody.Price
	product.Image = reqBody.Image
	product.Brand = reqBody.Brand
	product.Category = reqBody.Category
	product.CountInStock = reqBody.CountInStock
	product.Description = reqBody.Description

	product, err = pc.products.Update(ctx, product)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error updating product")
	}

	return responses.OK(c, fiber.StatusOK, "Product updated successfully", fiber.Map{
		"product": product,
	})
}

// DeleteProduct removes a product, with the same creator check as
// UpdateProduct.
func (pc *ProductController) DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product ID format")
	}

	product, err := pc.products.FindByID(ctx, productId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching product")
	}

	user := middlewares.CurrentUser(c)
	if product.User != user.Id {
		return responses.Error(c, fiber.StatusUnauthorized, "You are not authorized to delete this product")
	}

	if err := pc.products.Delete(ctx, productId); err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error deleting product")
	}

	return responses.OK(c, fiber.StatusOK, "Product removed", fiber.Map{})
}

// CreateProductReview appends a review and recomputes the aggregate
// rating as the mean of all review ratings. One review per user per
// product.
func (pc *ProductController) CreateProductReview(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product ID format")
	}

	var reqBody createReviewRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid review data")
	}

	product, err := pc.products.FindByID(ctx, productId)
	if errors.Is(err, store.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching product")
	}

	user := middlewares.CurrentUser(c)
	for _, review := range product.Reviews {
		if review.User == user.Id {
			return responses.Error(c, fiber.StatusBadRequest, "Product already reviewed")
		}
	}

	product.Reviews = append(product.Reviews, models.Review{
		Name:      user.Name,
		User:      user.Id,
		Rating:    reqBody.Rating,
		Comment:   reqBody.Comment,
		CreatedAt: time.Now(),
	})

	product.NumReviews = len(product.Reviews)
	var sum float64
	for _, review := range product.Reviews {
		sum += review.Rating
	}
	product.Rating = sum / float64(len(product.Reviews))

	if _, err := pc.products.Update(ctx, product); err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error saving review")
	}

	return responses.OK(c, fiber.StatusCreated, "Review added", fiber.Map{})
}
