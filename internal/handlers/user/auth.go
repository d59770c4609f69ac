// Package user serves signup, login, password lifecycle, the profile
// dashboard and the admin/manager user surfaces.
package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tstore_backend/internal/auth"
	"tstore_backend/internal/cache"
	"tstore_backend/internal/database"
	"tstore_backend/internal/httpx"
	"tstore_backend/internal/models"
	"tstore_backend/internal/repository"
	"tstore_backend/internal/services"
)

const cookieMaxAge = 3 * 24 * 60 * 60 // 3 days

type Handler struct {
	users     *repository.UserRepo
	userCache *cache.Users
	assets    *services.AssetStore
	mailer    *services.Mailer
	jwtSecret string
	jwtExpiry time.Duration
}

func NewHandler(users *repository.UserRepo, userCache *cache.Users, assets *services.AssetStore, mailer *services.Mailer, jwtSecret string, jwtExpiry time.Duration) *Handler {
	return &Handler{
		users:     users,
		userCache: userCache,
		assets:    assets,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Signup registers a user, stores an optional profile photo and logs the
// user straight in.
func (h *Handler) Signup(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")
	if name == "" || email == "" || password == "" {
		httpx.Error(c, httpx.BadRequest("name, email and password are required"))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.FindByEmail(ctx, email); err == nil {
		httpx.Error(c, httpx.BadRequest("user already exists"))
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		httpx.Error(c, err)
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	u := &models.User{
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}

	if file, err := c.FormFile("photo"); err == nil {
		photo, err := h.assets.Upload(ctx, database.BucketUsers, file)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		u.Photo = &photo
	}

	if err := h.users.Create(ctx, u); err != nil {
		httpx.Error(c, err)
		return
	}

	h.sendToken(c, u)
}

// Login verifies the password and issues a token.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BadRequest("email and password are both required"))
		return
	}

	u, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		httpx.Error(c, httpx.BadRequest("email is not registered"))
		return
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}

	ok, err := auth.VerifyPassword(req.Password, u.Password)
	if err != nil || !ok {
		httpx.Error(c, httpx.BadRequest("password is not correct"))
		return
	}

	h.sendToken(c, u)
}

// Logout clears the token cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	httpx.JSON(c, http.StatusOK, gin.H{"message": "logout success"})
}

// sendToken issues the JWT as both an httpOnly cookie and a body field.
func (h *Handler) sendToken(c *gin.Context, u *models.User) {
	token, err := auth.SignToken(u, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.SetCookie("token", token, cookieMaxAge, "/", "", false, true)
	httpx.JSON(c, http.StatusOK, gin.H{
		"token": token,
		"user":  u,
	})
}
