package user

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/httpx"
	"tstore_backend/internal/models"
	"tstore_backend/internal/repository"
)

// AdminGetUsers lists every registered user.
func (h *Handler) AdminGetUsers(c *gin.Context) {
	users, err := h.users.Find(c.Request.Context(), bson.M{})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"users": users})
}

// ManagerGetUsers lists only the users with the plain user role.
func (h *Handler) ManagerGetUsers(c *gin.Context) {
	users, err := h.users.Find(c.Request.Context(), bson.M{"role": models.RoleUser})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"users": users})
}

// AdminGetOneUser returns one user by id.
func (h *Handler) AdminGetOneUser(c *gin.Context) {
	u, err := h.findUser(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"user": u})
}

// AdminUpdateUser changes a user's name, email and/or role.
func (h *Handler) AdminUpdateUser(c *gin.Context) {
	u, err := h.findUser(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BadRequest("invalid request body"))
		return
	}

	ctx := c.Request.Context()
	fields := bson.M{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Email != "" && req.Email != u.Email {
		if _, err := h.users.FindByEmail(ctx, req.Email); err == nil {
			httpx.Error(c, httpx.BadRequest("email already exists, please use a different email"))
			return
		} else if !errors.Is(err, repository.ErrNotFound) {
			httpx.Error(c, err)
			return
		}
		fields["email"] = req.Email
	}
	if req.Role != "" {
		if req.Role != models.RoleUser && req.Role != models.RoleAdmin && req.Role != models.RoleManager {
			httpx.Error(c, httpx.BadRequest("unknown role: "+req.Role))
			return
		}
		fields["role"] = req.Role
	}
	if len(fields) == 0 {
		httpx.Error(c, httpx.BadRequest("no field has been provided to change"))
		return
	}

	if err := h.users.Update(ctx, u.ID, fields); err != nil {
		httpx.Error(c, err)
		return
	}
	h.userCache.Invalidate(ctx, u.ID.Hex())

	httpx.JSON(c, http.StatusOK, gin.H{})
}

// AdminDeleteUser removes the user and their photo asset.
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	u, err := h.findUser(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	ctx := c.Request.Context()

	if u.Photo != nil {
		if err := h.assets.Delete(ctx, u.Photo.ID); err != nil {
			log.Printf("⚠️  Could not remove photo %s: %v", u.Photo.ID, err)
		}
	}

	if err := h.users.Delete(ctx, u.ID); err != nil {
		httpx.Error(c, err)
		return
	}
	h.userCache.Invalidate(ctx, u.ID.Hex())

	httpx.JSON(c, http.StatusOK, gin.H{})
}

func (h *Handler) findUser(c *gin.Context) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, httpx.BadRequest("invalid user id")
	}
	u, err := h.users.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, httpx.NotFound("no user found")
	}
	return u, err
}
