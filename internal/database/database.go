// Package database owns the lifecycle of the backing services: MongoDB for
// documents, Redis for caching and rate limiting, MinIO for image assets.
// Clients are constructed here once and injected; nothing in this package
// is a global.
package database

import (
	"context"
	"fmt"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"tstore_backend/internal/config"
)

// Buckets used by the asset host.
const (
	BucketProducts = "products"
	BucketUsers    = "users"
)

type Databases struct {
	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client
	MinIO *minio.Client
}

// Connect brings up every backing service or fails.
func Connect(ctx context.Context, cfg config.Config) (*Databases, error) {
	client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Println("✅ Connected to MongoDB:", cfg.MongoDatabase)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Println("✅ Connected to Redis")

	mc, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio connect: %w", err)
	}
	for _, bucket := range []string{BucketProducts, BucketUsers} {
		exists, err := mc.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("minio bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("minio make bucket %s: %w", bucket, err)
			}
			log.Println("🪣 Bucket created:", bucket)
		}
	}
	log.Println("✅ Connected to MinIO:", cfg.MinioEndpoint)

	return &Databases{
		Mongo: client,
		DB:    client.Database(cfg.MongoDatabase),
		Redis: rdb,
		MinIO: mc,
	}, nil
}

func (d *Databases) Close(ctx context.Context) {
	if err := d.Mongo.Disconnect(ctx); err != nil {
		log.Println("⚠️  Mongo disconnect:", err)
	}
	if err := d.Redis.Close(); err != nil {
		log.Println("⚠️  Redis close:", err)
	}
	log.Println("🔌 Database connections closed")
}
