package user

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"tstore_backend/internal/database"
	"tstore_backend/internal/httpx"
	"tstore_backend/internal/middleware"
	"tstore_backend/internal/repository"
)

// Dashboard returns the logged-in user's details.
func (h *Handler) Dashboard(c *gin.Context) {
	httpx.JSON(c, http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

// UpdateProfile changes name, email and/or photo. A new photo replaces the
// old one on the asset host.
func (h *Handler) UpdateProfile(c *gin.Context) {
	current := middleware.CurrentUser(c)
	ctx := c.Request.Context()
	fields := bson.M{}

	if name := c.PostForm("name"); name != "" {
		fields["name"] = name
	}

	if email := c.PostForm("email"); email != "" && email != current.Email {
		if _, err := h.users.FindByEmail(ctx, email); err == nil {
			httpx.Error(c, httpx.BadRequest("email already exists, please use a different email"))
			return
		} else if !errors.Is(err, repository.ErrNotFound) {
			httpx.Error(c, err)
			return
		}
		fields["email"] = email
	}

	if file, err := c.FormFile("photo"); err == nil {
		if current.Photo != nil {
			if err := h.assets.Delete(ctx, current.Photo.ID); err != nil {
				log.Printf("⚠️  Could not remove old photo %s: %v", current.Photo.ID, err)
			}
		}
		photo, err := h.assets.Upload(ctx, database.BucketUsers, file)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		fields["photo"] = photo
	}

	if len(fields) == 0 {
		httpx.Error(c, httpx.BadRequest("no field has been provided to change"))
		return
	}

	if err := h.users.Update(ctx, current.ID, fields); err != nil {
		httpx.Error(c, err)
		return
	}
	h.userCache.Invalidate(ctx, current.ID.Hex())

	httpx.JSON(c, http.StatusOK, gin.H{})
}
