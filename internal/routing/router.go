package routing

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gadget-server/internal/config"
	"gadget-server/internal/handlers"
	"gadget-server/internal/managers"
	"gadget-server/internal/middleware"
	"gadget-server/internal/schemas"
	"gadget-server/internal/utils"
)

// Version is reported by the metadata route, it is set at build time through -ldflags.
var Version = "main:latest"

func InitRouter(cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr,
	mediaMgr managers.MediaMgr, tokenMgr managers.TokenMgr) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router, cfg)
	// Setup routes
	setupRoutes(router, cfg, databaseMgr, mailMgr, jwtMgr, mediaMgr, tokenMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
	})
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr,
	jwtMgr managers.JWTMgr, mediaMgr managers.MediaMgr, tokenMgr managers.TokenMgr) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		metadata := &schemas.MetadataDTO{
			ApiVersion:  Version,
			ApiName:     cfg.ServiceName,
			Environment: cfg.Environment,
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		if err := databaseMgr.Ping(c.Request.Context()); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError.WithMessage("Database not responding"), err)
			return
		}
		utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "OK"}, http.StatusOK)
	})

	protect := middleware.Protect(jwtMgr, databaseMgr.Users(), cfg.CookieName)
	validateID := middleware.ValidateID(databaseMgr.ValidID)

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		// Set up user routes
		userRouter := apiRouter.Group("/users")
		userHdl := handlers.NewUserHandler(databaseMgr, jwtMgr, mailMgr, tokenMgr, cfg)
		mailLimiter := middleware.NewIPRateLimiter(cfg.EmailRateLimit, cfg.EmailRateWindow)
		userRoutes(userRouter, userHdl, cfg, mailLimiter, protect, validateID)

		// Set up category routes
		categoryRouter := apiRouter.Group("/categories")
		categoryHdl := handlers.NewCategoryHandler(databaseMgr)
		categoryRoutes(categoryRouter, categoryHdl, protect, validateID)

		// Set up product routes
		productRouter := apiRouter.Group("/products")
		productHdl := handlers.NewProductHandler(databaseMgr, mediaMgr)
		productRoutes(productRouter, productHdl, protect, validateID)
	}
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl, cfg *config.Config, mailLimiter *middleware.IPRateLimiter,
	protect, validateID gin.HandlerFunc) {
	guest := middleware.EnsureGuest(cfg.CookieName)

	userRouter.POST("/register", mailLimiter.RateLimit(), guest,
		middleware.ValidateAndSanitizeStruct(&schemas.RegistrationRequest{}), userHdl.RegisterUser)
	userRouter.POST("/login", guest, middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), userHdl.LoginUser)
	userRouter.POST("/forgotpassword", mailLimiter.RateLimit(), guest,
		middleware.ValidateAndSanitizeStruct(&schemas.ForgotPasswordRequest{}), userHdl.ForgotPassword)
	userRouter.GET("/verify/:id/:token", validateID, userHdl.VerifyUser)
	userRouter.GET("/resetpassword/:id/:token", guest, validateID, userHdl.ResetPassword)
	userRouter.PUT("/updatepassword/:id", guest, validateID,
		middleware.ValidateAndSanitizeStruct(&schemas.UpdatePasswordRequest{}), userHdl.UpdatePassword)
	// The following routes require the user to be authenticated
	userRouter.GET("/logout", protect, userHdl.LogoutUser)
}

func categoryRoutes(categoryRouter *gin.RouterGroup, categoryHdl handlers.CategoryHdl, protect, validateID gin.HandlerFunc) {
	categoryRouter.GET("", categoryHdl.GetCategories)
	categoryRouter.GET("/:id", validateID, categoryHdl.GetCategory)
	// The following routes require the user to be authenticated
	categoryRouter.POST("", protect, middleware.ValidateAndSanitizeStruct(&schemas.CategoryRequest{}), categoryHdl.CreateCategory)
	categoryRouter.PUT("/:id", protect, validateID,
		middleware.ValidateAndSanitizeStruct(&schemas.CategoryRequest{}), categoryHdl.UpdateCategory)
	categoryRouter.DELETE("/:id", protect, validateID, categoryHdl.DeleteCategory)
}

func productRoutes(productRouter *gin.RouterGroup, productHdl handlers.ProductHdl, protect, validateID gin.HandlerFunc) {
	productRouter.GET("/getall", productHdl.GetProducts)
	productRouter.GET("/:id", validateID, productHdl.GetProduct)
	// The following routes require the user to be authenticated
	productRouter.POST("", protect, middleware.ValidateAndSanitizeStruct(&schemas.CreateProductRequest{}), productHdl.CreateProduct)
	productRouter.PUT("/:id", protect, validateID,
		middleware.ValidateAndSanitizeStruct(&schemas.UpdateProductRequest{}), productHdl.UpdateProduct)
	productRouter.DELETE("/:id", protect, validateID, productHdl.DeleteProduct)
}
