package user

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"tstore_backend/internal/auth"
	"tstore_backend/internal/httpx"
	"tstore_backend/internal/middleware"
	"tstore_backend/internal/repository"
)

// ForgotPassword generates a reset token, stores its digest and mails the
// reset link. If the mail fails the token is rolled back before
// responding, so a dead token never lingers on the record.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BadRequest("email is required"))
		return
	}

	ctx := c.Request.Context()
	u, err := h.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		httpx.Error(c, httpx.BadRequest("email is not registered"))
		return
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}

	raw, digest, err := auth.NewResetToken()
	if err != nil {
		httpx.Error(c, err)
		return
	}
	expiry := time.Now().Add(auth.ResetTokenTTL)
	if err := h.users.Update(ctx, u.ID, bson.M{
		"forgotPasswordToken":  digest,
		"forgotPasswordExpiry": expiry,
	}); err != nil {
		httpx.Error(c, err)
		return
	}
	h.userCache.Invalidate(ctx, u.ID.Hex())

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	resetURL := fmt.Sprintf("%s://%s/api/v1/password/reset/%s", scheme, c.Request.Host, raw)
	message := fmt.Sprintf("Copy paste this link in your url and hit enter\n\n%s", resetURL)

	if err := h.mailer.Send(u.Email, "TStore Password reset email", message); err != nil {
		log.Printf("❌ Reset mail to %s failed: %v", u.Email, err)
		if rbErr := h.users.Update(ctx, u.ID, bson.M{
			"forgotPasswordToken":  nil,
			"forgotPasswordExpiry": nil,
		}); rbErr != nil {
			log.Printf("⚠️  Could not roll back reset token for %s: %v", u.Email, rbErr)
		}
		h.userCache.Invalidate(ctx, u.ID.Hex())
		httpx.Error(c, httpx.NewAppError(http.StatusInternalServerError, err.Error()))
		return
	}

	httpx.JSON(c, http.StatusOK, gin.H{"message": "email sent successfully"})
}

// ResetPassword consumes a reset token and sets the new password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req struct {
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BadRequest("password and confirmPassword are required"))
		return
	}
	if req.Password != req.ConfirmPassword {
		httpx.Error(c, httpx.BadRequest("password and confirmed password do not match"))
		return
	}

	ctx := c.Request.Context()
	digest := auth.HashResetToken(c.Param("token"))
	u, err := h.users.FindByResetToken(ctx, digest, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		httpx.Error(c, httpx.BadRequest("token is invalid or expired"))
		return
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.users.Update(ctx, u.ID, bson.M{
		"password":             hashed,
		"forgotPasswordToken":  nil,
		"forgotPasswordExpiry": nil,
	}); err != nil {
		httpx.Error(c, err)
		return
	}
	h.userCache.Invalidate(ctx, u.ID.Hex())

	u.Password = hashed
	h.sendToken(c, u)
}

// ChangePassword verifies the old password before setting a new one.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword        string `json:"oldPassword" binding:"required"`
		NewPassword        string `json:"newPassword" binding:"required"`
		ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BadRequest("old password, new password and confirm new password are required"))
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		httpx.Error(c, httpx.BadRequest("new password and confirm new password are not the same"))
		return
	}

	current := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	// Re-read for the stored hash; the context copy may be cached.
	u, err := h.users.FindByID(ctx, current.ID)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	ok, err := auth.VerifyPassword(req.OldPassword, u.Password)
	if err != nil || !ok {
		httpx.Error(c, httpx.BadRequest("old password does not match"))
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.users.Update(ctx, u.ID, bson.M{"password": hashed}); err != nil {
		httpx.Error(c, err)
		return
	}
	h.userCache.Invalidate(ctx, u.ID.Hex())

	h.sendToken(c, u)
}
