package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tstore_backend/internal/cache"
	"tstore_backend/internal/config"
	"tstore_backend/internal/database"
	orderh "tstore_backend/internal/handlers/order"
	producth "tstore_backend/internal/handlers/product"
	userh "tstore_backend/internal/handlers/user"
	"tstore_backend/internal/middleware"
	orderflow "tstore_backend/internal/order"
	"tstore_backend/internal/repository"
	"tstore_backend/internal/routes"
	"tstore_backend/internal/services"
	"tstore_backend/internal/stock"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbs, err := database.Connect(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal("❌ Database setup failed: ", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dbs.Close(ctx)
	}()

	productRepo := repository.NewProductRepo(dbs.DB)
	orderRepo := repository.NewOrderRepo(dbs.DB)
	userRepo := repository.NewUserRepo(dbs.DB)
	userCache := cache.NewUsers(dbs.Redis, userRepo)

	assets := services.NewAssetStore(dbs.MinIO, cfg.MinioEndpoint, cfg.MinioUseSSL)
	mailer := services.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)

	workflow := orderflow.NewWorkflow(orderRepo, stock.NewReconciler(productRepo))

	r := gin.Default()
	r.Use(cors.Default())

	routes.Register(r, routes.Deps{
		Auth:     middleware.NewAuth(cfg.JWTSecret, userCache),
		Limiter:  middleware.NewLimiter(dbs.Redis),
		Products: producth.NewHandler(productRepo, assets),
		Orders:   orderh.NewHandler(orderRepo, workflow),
		Users:    userh.NewHandler(userRepo, userCache, assets, mailer, cfg.JWTSecret, cfg.JWTExpiry),
	})

	log.Println("🚀 TStore server listening on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("❌ Server stopped: ", err)
	}
}
