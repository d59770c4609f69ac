package routes

import (
	"github.com/gin-gonic/gin"

	orderh "tstore_backend/internal/handlers/order"
	producth "tstore_backend/internal/handlers/product"
	userh "tstore_backend/internal/handlers/user"
	"tstore_backend/internal/middleware"
	"tstore_backend/internal/models"
)

type Deps struct {
	Auth     *middleware.Auth
	Limiter  *middleware.Limiter
	Products *producth.Handler
	Orders   *orderh.Handler
	Users    *userh.Handler
}

func Register(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1")

	// Public
	v1.POST("/signup", d.Limiter.Signup(), d.Users.Signup)
	v1.POST("/login", d.Limiter.Login(), d.Users.Login)
	v1.GET("/logout", d.Users.Logout)
	v1.POST("/password/forgot", d.Limiter.ForgotPassword(), d.Users.ForgotPassword)
	v1.PUT("/password/reset/:token", d.Users.ResetPassword)
	v1.GET("/products", d.Products.GetProducts)
	v1.GET("/product/:id", d.Products.GetOneProduct)

	// Logged-in
	loggedIn := v1.Group("", d.Auth.LoggedIn())
	loggedIn.GET("/userdashboard", d.Users.Dashboard)
	loggedIn.POST("/password/update", d.Users.ChangePassword)
	loggedIn.PUT("/userdashboard/update", d.Users.UpdateProfile)
	loggedIn.PUT("/review", d.Products.AddReview)
	loggedIn.DELETE("/review", d.Products.DeleteReview)
	loggedIn.POST("/order/create", d.Orders.CreateOrder)
	loggedIn.GET("/order/:id", d.Orders.GetOneOrder)
	loggedIn.GET("/myorder", d.Orders.GetMyOrders)

	// Admin
	admin := v1.Group("/admin", d.Auth.LoggedIn(), d.Auth.Role(models.RoleAdmin))
	admin.GET("/products", d.Products.AdminGetProducts)
	admin.POST("/products/add", d.Products.AddProduct)
	admin.PUT("/product/:id", d.Products.AdminUpdateProduct)
	admin.DELETE("/product/:id", d.Products.AdminDeleteProduct)
	admin.GET("/users", d.Users.AdminGetUsers)
	admin.GET("/user/:id", d.Users.AdminGetOneUser)
	admin.PUT("/user/:id", d.Users.AdminUpdateUser)
	admin.DELETE("/user/:id", d.Users.AdminDeleteUser)
	admin.GET("/orders", d.Orders.AdminGetOrders)
	admin.PUT("/order/:id", d.Orders.AdminUpdateOrder)
	admin.DELETE("/order/:id", d.Orders.AdminDeleteOrder)

	// Manager
	manager := v1.Group("/manager", d.Auth.LoggedIn(), d.Auth.Role(models.RoleManager))
	manager.GET("/users", d.Users.ManagerGetUsers)
}
