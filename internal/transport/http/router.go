package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/harvestbites/storefront/internal/handlers"
	appmw "github.com/harvestbites/storefront/internal/middleware"
)

type Deps struct {
	DB              *gorm.DB
	Auth            *appmw.AuthMiddleware
	ProductHandler  *handlers.ProductHandler
	SearchHandler   *handlers.SearchHandler
	AuthHandler     *handlers.AuthHandler
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	OrderHandler    *handlers.OrderHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error {
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.Ping() != nil {
			return c.NoContent(503)
		}
		return c.NoContent(200)
	})

	v1 := e.Group("/api/v1", appmw.Session)

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.POST("/logout", d.AuthHandler.Logout)
	authGroup.POST("/refresh", d.AuthHandler.Refresh)
	authGroup.POST("/otp/send", d.AuthHandler.SendOTP)
	authGroup.POST("/otp/verify", d.AuthHandler.VerifyOTP)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	v1.GET("/search", d.SearchHandler.Search)

	cart := v1.Group("/cart", d.Auth.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PATCH("/items/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.Clear)
	cart.POST("/open", d.CartHandler.SetOpen)

	checkout := v1.Group("/checkout", d.Auth.RequireAuth)
	checkout.POST("", d.CheckoutHandler.Start)
	checkout.GET("", d.CheckoutHandler.Get)
	checkout.PUT("/contact", d.CheckoutHandler.UpdateContact)
	checkout.PUT("/address", d.CheckoutHandler.UpdateAddress)
	checkout.PUT("/payment", d.CheckoutHandler.SelectPayment)
	checkout.POST("/coupon", d.CheckoutHandler.ApplyCoupon)
	checkout.POST("/next", d.CheckoutHandler.Next)
	checkout.POST("/back", d.CheckoutHandler.Back)
	checkout.POST("/pincode", d.CheckoutHandler.LookupPincode)
	checkout.POST("/location", d.CheckoutHandler.UseLocation)

	orders := v1.Group("/orders", d.Auth.RequireAuth)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/summary", d.OrderHandler.GetSummary)
	orders.POST("/pay", d.OrderHandler.Pay)
	orders.GET("/recent", d.OrderHandler.GetRecent)
	orders.POST("/recent/mirror", d.OrderHandler.MirrorRecent)
	orders.GET("/:number", d.OrderHandler.GetOrder)
	orders.GET("/:number/tracking", d.OrderHandler.Track)
}
