package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/sparshnfc/storefront/internal/handlers"
	"github.com/sparshnfc/storefront/internal/session"
)

type Deps struct {
	Sessions       *session.Service
	CartHandler    *handlers.CartHandler
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	AdminHandler   *handlers.AdminHandler
	ExportHandler  *handlers.ExportHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.POST("/password-reset", d.AuthHandler.PasswordReset)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("", d.CartHandler.UpdateQuantity)
	cart.DELETE("", d.CartHandler.RemoveFromCart)
	cart.DELETE("/all", d.CartHandler.ClearCart)

	account := v1.Group("", d.Sessions.AutoRefresh)
	account.GET("/me", d.AuthHandler.Me)
	account.PATCH("/me", d.AuthHandler.UpdateMe)
	account.GET("/orders", d.OrderHandler.MyOrders)
	account.POST("/orders", d.OrderHandler.PlaceOrder)

	admin := v1.Group("/admin", d.Sessions.AutoRefreshAdmin)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.GET("/orders", d.AdminHandler.GetOrders)
	admin.GET("/orders/:id", d.AdminHandler.GetOrder)
	admin.PATCH("/orders/:id/status", d.AdminHandler.UpdateOrderStatus)

	admin.GET("/users", d.AdminHandler.GetUsers)
	admin.GET("/users/:id", d.AdminHandler.GetUser)

	admin.GET("/export/orders.csv", d.ExportHandler.OrdersCSV)
	admin.GET("/export/orders.pdf", d.ExportHandler.OrdersPDF)
	admin.GET("/export/users.csv", d.ExportHandler.UsersCSV)
	admin.GET("/export/users.pdf", d.ExportHandler.UsersPDF)
}
