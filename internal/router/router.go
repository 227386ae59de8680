package router

import (
	"skyorder/internal/config"
	"skyorder/internal/handler"
	"skyorder/internal/infra"
	"skyorder/internal/middleware"
	"skyorder/internal/repository"
	"skyorder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil: the catalog then reads through to the database and cart
// locks fall back to an in-process keyed mutex.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, limiter *middleware.RateLimiter) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	// ── Infrastructure ───────────────────────────────────────────────────────
	var locker infra.Locker
	if rdb != nil {
		locker = infra.NewRedisLocker(rdb, cfg.CartLockTTL())
	} else {
		locker = infra.NewLocalLocker()
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	cartRepo := repository.NewShoppingCartRepository(db)
	dishRepo := repository.NewDishRepository(db)
	setmealRepo := repository.NewSetmealRepository(db)
	setmealDishRepo := repository.NewSetmealDishRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogSvc := service.NewCatalogService(dishRepo, setmealRepo, rdb, cfg.CatalogCacheTTL())
	cartSvc := service.NewShoppingCartService(cartRepo, catalogSvc, locker, nil)
	setmealSvc := service.NewSetmealService(setmealRepo, setmealDishRepo, dishRepo, catalogSvc, nil)
	dishSvc := service.NewDishService(dishRepo, setmealDishRepo, catalogSvc, nil)
	categorySvc := service.NewCategoryService(categoryRepo, nil)

	// ── Handlers ─────────────────────────────────────────────────────────────
	catalogH := handler.NewCatalogHandler(catalogSvc)
	cartH := handler.NewShoppingCartHandler(cartSvc)
	setmealsH := handler.NewSetmealsHandler(setmealSvc)
	dishesH := handler.NewDishesHandler(dishSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/v1/catalog/dishes/:id", catalogH.Dish)
	r.GET("/v1/catalog/setmeals/:id", catalogH.Setmeal)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	cart := r.Group("/v1/user/shopping-cart", jwtMW, middleware.RequireRole(middleware.RoleUser))
	{
		cart.POST("/add", cartH.Add)
		cart.POST("/sub", cartH.Sub)
		cart.GET("/list", cartH.List)
		cart.DELETE("/clean", cartH.Clean)
	}

	admin := r.Group("/v1/admin", jwtMW, middleware.RequireRole(middleware.RoleEmployee))
	{
		setmeals := admin.Group("/setmeals")
		{
			setmeals.POST("", setmealsH.Create)
			setmeals.GET("", setmealsH.List)
			setmeals.DELETE("", setmealsH.Delete)
			setmeals.GET("/:id", setmealsH.Get)
			setmeals.PUT("/:id", setmealsH.Update)
			setmeals.POST("/:id/status/:status", setmealsH.SetStatus)
		}

		dishes := admin.Group("/dishes")
		{
			dishes.POST("", dishesH.Create)
			dishes.GET("", dishesH.List)
			dishes.DELETE("", dishesH.Delete)
			dishes.GET("/:id", dishesH.Get)
			dishes.PUT("/:id", dishesH.Update)
			dishes.POST("/:id/status/:status", dishesH.SetStatus)
		}

		categories := admin.Group("/categories")
		{
			categories.POST("", categoriesH.Create)
			categories.GET("", categoriesH.List)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}
	}

	return r
}
