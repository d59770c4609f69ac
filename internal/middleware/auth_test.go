package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/auth"
	"tstore_backend/internal/models"
)

const testSecret = "test_secret"

type fakeLoader struct {
	users map[string]*models.User
	calls int
}

func (f *fakeLoader) ByID(_ context.Context, id string) (*models.User, error) {
	f.calls++
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func fixture(role string) (*Auth, *fakeLoader, *models.User, string) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.c", Role: role}
	token, err := auth.SignToken(user, testSecret, time.Hour)
	if err != nil {
		panic(err)
	}
	loader := &fakeLoader{users: map[string]*models.User{user.ID.Hex(): user}}
	return NewAuth(testSecret, loader), loader, user, token
}

func perform(a *Auth, extra gin.HandlerFunc, mutate func(*http.Request)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{a.LoggedIn()}
	if extra != nil {
		handlers = append(handlers, extra)
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).Email})
	})
	r.GET("/protected", handlers...)
	r.POST("/protected", handlers...)

	method := http.MethodGet
	req := httptest.NewRequest(method, "/protected", nil)
	mutate(req)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoggedIn_NoCredentialFailsBeforeVerification(t *testing.T) {
	a, loader, _, _ := fixture(models.RoleUser)

	w := perform(a, nil, func(*http.Request) {})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not logged in")
	assert.Zero(t, loader.calls, "no user lookup without a credential")
}

func TestLoggedIn_HeaderToken(t *testing.T) {
	a, _, _, token := fixture(models.RoleUser)

	w := perform(a, nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggedIn_CookieToken(t *testing.T) {
	a, _, _, token := fixture(models.RoleUser)

	w := perform(a, nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggedIn_BodyToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, _, _, token := fixture(models.RoleUser)

	r := gin.New()
	r.POST("/protected", a.LoggedIn(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/protected",
		strings.NewReader(`{"token":"`+token+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggedIn_CookieTakesPrecedenceOverHeader(t *testing.T) {
	a, _, _, token := fixture(models.RoleUser)

	// Valid header, garbage cookie: cookie wins, verification fails.
	w := perform(a, nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired")
}

func TestLoggedIn_ExpiredToken(t *testing.T) {
	a, _, user, _ := fixture(models.RoleUser)
	expired, err := auth.SignToken(user, testSecret, -time.Minute)
	require.NoError(t, err)

	w := perform(a, nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+expired)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired")
}

func TestLoggedIn_UnknownUser(t *testing.T) {
	a, loader, user, token := fixture(models.RoleUser)
	delete(loader.users, user.ID.Hex())

	w := perform(a, nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRole_AllowsListedRole(t *testing.T) {
	a, _, _, token := fixture(models.RoleAdmin)

	w := perform(a, a.Role(models.RoleAdmin, models.RoleManager), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRole_RejectsOtherRoles(t *testing.T) {
	a, _, _, token := fixture(models.RoleUser)

	w := perform(a, a.Role(models.RoleAdmin), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "not allowed")
}
