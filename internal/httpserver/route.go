package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/avolkov/storefront/internal/middleware/auth"
)

type Deps struct {
	OrderHandler    *OrderHTTP
	ProductHandler  *ProductHTTP
	ReviewHandler   *ReviewHTTP
	FavoriteHandler *FavoriteHTTP
	SearchHandler   *SearchHTTP
	JWTSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	login := authmw.RequireLogin(d.JWTSecret)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/slug/:slug", d.ProductHandler.GetProductBySlug)
	products.GET("/:id/reviews", d.ReviewHandler.ListReviews)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	orders := v1.Group("/orders", login)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/:id/pay", d.OrderHandler.MarkPaid)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)

	reviews := v1.Group("/reviews", login)
	reviews.POST("", d.ReviewHandler.CreateReview)
	reviews.PATCH("/:id", d.ReviewHandler.PatchReview)
	reviews.DELETE("/:id", d.ReviewHandler.DeleteReview)
	reviews.POST("/:id/helpful", d.ReviewHandler.ToggleHelpful)

	favorites := v1.Group("/favorites", login)
	favorites.GET("", d.FavoriteHandler.ListFavorites)
	favorites.POST("", d.FavoriteHandler.AddFavorite)
	favorites.DELETE("/:id", d.FavoriteHandler.RemoveFavorite)

	admin := v1.Group("/admin", login, authmw.AdminOnly)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.GET("/orders", d.OrderHandler.GetAllOrders)
	admin.PATCH("/orders/:id", d.OrderHandler.AdvanceOrder)
}
