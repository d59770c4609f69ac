package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	loginMaxAttempts  = 5
	signupMaxAttempts = 3
	forgotMaxAttempts = 3

	loginCooldown  = 15 * time.Minute
	signupCooldown = 30 * time.Minute
	forgotCooldown = 10 * time.Minute
)

// Limiter throttles the auth endpoints with Redis counters.
type Limiter struct {
	rdb *redis.Client
}

func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

// Login limits failed login attempts per email, with a cooldown once the
// budget is spent. Successful logins reset the counter.
func (l *Limiter) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := peekEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email

		if l.rdb.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := l.rdb.TTL(ctx, cooldownKey).Val()
			tooMany(c, fmt.Sprintf("too many failed attempts, retry in %d minutes", int(ttl.Minutes())), ttl)
			return
		}

		attempts, _ := l.rdb.Get(ctx, key).Int()
		if attempts >= loginMaxAttempts {
			l.rdb.Set(ctx, cooldownKey, "1", loginCooldown)
			l.rdb.Del(ctx, key)
			tooMany(c, fmt.Sprintf("too many failed attempts, retry in %d minutes", int(loginCooldown.Minutes())), loginCooldown)
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusBadRequest, http.StatusUnauthorized:
			l.rdb.Incr(ctx, key)
			l.rdb.Expire(ctx, key, loginCooldown)
		case http.StatusOK:
			l.rdb.Del(ctx, key)
			l.rdb.Del(ctx, cooldownKey)
		}
	}
}

// Signup limits account creation per client IP.
func (l *Limiter) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := c.ClientIP()
		key := "signup_attempts:" + ip

		attempts, _ := l.rdb.Get(ctx, key).Int()
		if attempts >= signupMaxAttempts {
			tooMany(c, fmt.Sprintf("too many signups, retry in %d minutes", int(signupCooldown.Minutes())), signupCooldown)
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK || c.Writer.Status() == http.StatusCreated {
			l.rdb.Incr(ctx, key)
			l.rdb.Expire(ctx, key, signupCooldown)
		}
	}
}

// ForgotPassword limits reset requests per email.
func (l *Limiter) ForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := peekEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "forgot_attempts:" + email

		attempts, _ := l.rdb.Get(ctx, key).Int()
		if attempts >= forgotMaxAttempts {
			tooMany(c, fmt.Sprintf("too many reset requests, retry in %d minutes", int(forgotCooldown.Minutes())), forgotCooldown)
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			l.rdb.Incr(ctx, key)
			l.rdb.Expire(ctx, key, forgotCooldown)
		}
	}
}

func tooMany(c *gin.Context, msg string, retryAfter time.Duration) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"success":     false,
		"error":       msg,
		"retry_after": int(retryAfter.Seconds()),
	})
	c.Abort()
}

// peekEmail reads the email from a JSON body without consuming it.
func peekEmail(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(bodyBytes, &body) != nil {
		return ""
	}
	return body.Email
}
