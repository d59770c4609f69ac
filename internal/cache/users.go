// Package cache fronts hot user lookups with Redis so the auth gate does
// not hit Mongo on every request.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/models"
	"tstore_backend/internal/repository"
)

const userTTL = 5 * time.Minute

type Users struct {
	rdb   *redis.Client
	users *repository.UserRepo
}

func NewUsers(rdb *redis.Client, users *repository.UserRepo) *Users {
	return &Users{rdb: rdb, users: users}
}

// ByID returns the user from Redis when cached, falling back to Mongo and
// filling the cache on a miss. Cache errors are treated as misses.
func (c *Users) ByID(ctx context.Context, id string) (*models.User, error) {
	key := "user:" + id

	if data, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	user, err := c.users.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		c.rdb.Set(ctx, key, data, userTTL)
	}
	return user, nil
}

// Invalidate drops a cached user after any update or delete.
func (c *Users) Invalidate(ctx context.Context, id string) {
	c.rdb.Del(ctx, "user:"+id)
}
