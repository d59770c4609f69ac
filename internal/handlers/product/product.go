// Package product serves the catalog: public listing and lookup, reviews,
// and the admin CRUD surface.
package product

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/database"
	"tstore_backend/internal/httpx"
	"tstore_backend/internal/middleware"
	"tstore_backend/internal/models"
	"tstore_backend/internal/query"
	"tstore_backend/internal/repository"
	"tstore_backend/internal/services"
)

const defaultPerPage = 6

type Handler struct {
	products *repository.ProductRepo
	assets   *services.AssetStore
}

func NewHandler(products *repository.ProductRepo, assets *services.AssetStore) *Handler {
	return &Handler{products: products, assets: assets}
}

// GetProducts runs the search/filter/pager pipeline over the catalog. The
// filtered count is taken before paging so page boundaries never change it.
func (h *Handler) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()

	totalCount, err := h.products.Count(ctx, bson.M{})
	if err != nil {
		httpx.Error(c, err)
		return
	}

	clause := query.NewWhereClause(query.ParseQuery(c.Request.URL.Query())).
		Search().
		Filter()

	filteredCount, err := h.products.Count(ctx, clause.Document())
	if err != nil {
		httpx.Error(c, err)
		return
	}

	clause = clause.Pager(clause.PerPage(defaultPerPage))
	products, err := h.products.Find(ctx, clause.Document(), clause.FindOptions())
	if err != nil {
		httpx.Error(c, err)
		return
	}

	httpx.JSON(c, http.StatusOK, gin.H{
		"products":             products,
		"filteredProductCount": filteredCount,
		"totalProductCount":    totalCount,
	})
}

// GetOneProduct returns a single product by id.
func (h *Handler) GetOneProduct(c *gin.Context) {
	product, err := h.findProduct(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"product": product})
}

// AddProduct creates a product from a multipart form; photos are required
// and stored on the asset host before the document is written.
func (h *Handler) AddProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["photos"]) == 0 {
		httpx.Error(c, httpx.BadRequest("please provide photos of product"))
		return
	}

	product, err := productFromForm(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	photos, err := h.uploadPhotos(c.Request.Context(), form.File["photos"])
	if err != nil {
		httpx.Error(c, err)
		return
	}
	product.Photos = photos
	product.User = middleware.CurrentUser(c).ID
	product.CreatedAt = time.Now()

	if err := h.products.Create(c.Request.Context(), product); err != nil {
		httpx.Error(c, err)
		return
	}

	httpx.JSON(c, http.StatusOK, gin.H{"product": product})
}

// AdminGetProducts lists the whole catalog without filtering.
func (h *Handler) AdminGetProducts(c *gin.Context) {
	products, err := h.products.Find(c.Request.Context(), bson.M{}, nil)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"products": products})
}

// AdminUpdateProduct updates fields; when new photos arrive the old ones
// are removed from the asset host first.
func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	product, err := h.findProduct(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	ctx := c.Request.Context()

	fields, err := updateFieldsFromForm(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	if form, err := c.MultipartForm(); err == nil && len(form.File["photos"]) > 0 {
		for _, photo := range product.Photos {
			if err := h.assets.Delete(ctx, photo.ID); err != nil {
				log.Printf("⚠️  Could not remove old photo %s: %v", photo.ID, err)
			}
		}
		photos, err := h.uploadPhotos(ctx, form.File["photos"])
		if err != nil {
			httpx.Error(c, err)
			return
		}
		fields["photos"] = photos
	}

	if len(fields) == 0 {
		httpx.Error(c, httpx.BadRequest("no field has been provided to change"))
		return
	}
	if err := h.products.Update(ctx, product.ID, fields); err != nil {
		httpx.Error(c, err)
		return
	}

	updated, err := h.products.FindByID(ctx, product.ID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"product": updated})
}

// AdminDeleteProduct removes the product and its photos.
func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	product, err := h.findProduct(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	ctx := c.Request.Context()

	for _, photo := range product.Photos {
		if err := h.assets.Delete(ctx, photo.ID); err != nil {
			log.Printf("⚠️  Could not remove photo %s: %v", photo.ID, err)
		}
	}

	if err := h.products.Delete(ctx, product.ID); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *Handler) findProduct(c *gin.Context) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, httpx.BadRequest("invalid product id")
	}
	product, err := h.products.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, httpx.NotFound(fmt.Sprintf("product with id %s not found", c.Param("id")))
	}
	return product, err
}

func (h *Handler) uploadPhotos(ctx context.Context, files []*multipart.FileHeader) ([]models.Photo, error) {
	photos := make([]models.Photo, 0, len(files))
	for _, file := range files {
		photo, err := h.assets.Upload(ctx, database.BucketProducts, file)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

func productFromForm(c *gin.Context) (*models.Product, error) {
	name := c.PostForm("name")
	if name == "" {
		return nil, httpx.BadRequest("product name is required")
	}
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		return nil, httpx.BadRequest("product price is required")
	}
	stock, _ := strconv.Atoi(c.PostForm("stock"))

	return &models.Product{
		Name:        name,
		Price:       price,
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Brand:       c.PostForm("brand"),
		Stock:       stock,
		Photos:      []models.Photo{},
		Reviews:     []models.Review{},
	}, nil
}

func updateFieldsFromForm(c *gin.Context) (bson.M, error) {
	fields := bson.M{}
	for _, key := range []string{"name", "description", "category", "brand"} {
		if v := c.PostForm(key); v != "" {
			fields[key] = v
		}
	}
	if v := c.PostForm("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, httpx.BadRequest("invalid price")
		}
		fields["price"] = price
	}
	if v := c.PostForm("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return nil, httpx.BadRequest("invalid stock")
		}
		fields["stock"] = stock
	}
	return fields, nil
}
