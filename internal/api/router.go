package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-engine/internal/api/handlers/health"
	"ingredient-engine/internal/api/handlers/imports"
	kbHandler "ingredient-engine/internal/api/handlers/kb"
	parseHandler "ingredient-engine/internal/api/handlers/parse"
	recipeHandler "ingredient-engine/internal/api/handlers/recipe"
	shoppingHandler "ingredient-engine/internal/api/handlers/shopping"
	"ingredient-engine/internal/api/middleware"
	"ingredient-engine/internal/core/importer"
	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/core/parser"
	recipeService "ingredient-engine/internal/core/recipe"
	shoppingService "ingredient-engine/internal/core/shopping"
	"ingredient-engine/internal/infrastructure/config"
	"ingredient-engine/internal/pkg/common"
)

// Services 路由需要的服務
type Services struct {
	KB       *kb.Holder
	Parser   parser.Parser
	Importer *importer.Reconciler
	Recipes  *recipeService.Service
	Shopping *shoppingService.Service
	Storage  health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.String("parser_mode", cfg.Parser.Mode),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		common.WriteErrorResponse(c, common.ErrNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		common.WriteErrorResponse(c, common.ErrMethodNotAllowed)
	})

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.OwnerHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	if cfg.Server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}
	router.Use(middleware.Owner())

	// 健康檢查路由
	healthH := health.NewHandler(cfg, svc.Storage, svc.KB)
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	api := router.Group("/api/v1")
	{
		parseH := parseHandler.NewHandler(svc.Parser)
		api.POST("/parse", parseH.HandleParse)
		api.POST("/parse/batch", parseH.HandleBatch)

		kbH := kbHandler.NewHandler(svc.KB)
		kbGroup := api.Group("/kb")
		{
			kbGroup.GET("", kbH.HandleGet)
			kbGroup.GET("/conflicts", kbH.HandleConflicts)
			kbGroup.POST("/ingredients", kbH.HandleFindOrCreate)
			kbGroup.POST("/reload", kbH.HandleReload)
		}

		importH := imports.NewHandler(svc.Importer)
		api.POST("/imports", middleware.Deduplication(cfg.DedupWindow), importH.HandleImport)

		recipeH := recipeHandler.NewHandler(svc.Recipes)
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", recipeH.HandleList)
			recipeGroup.POST("/repair", recipeH.HandleRepairAll)
			recipeGroup.GET("/:id", recipeH.HandleGet)
			recipeGroup.POST("/:id/repair", recipeH.HandleRepair)
			recipeGroup.POST("/:id/ingredients/:index/split", recipeH.HandleSplit)
			recipeGroup.PUT("/:id/ingredients/:index", recipeH.HandleUpdateIngredient)
		}

		shoppingH := shoppingHandler.NewHandler(svc.Shopping)
		listGroup := api.Group("/shopping-lists")
		{
			listGroup.POST("", middleware.Deduplication(cfg.DedupWindow), shoppingH.HandleCreate)
			listGroup.GET("/:id", shoppingH.HandleGet)
			listGroup.POST("/:id/recipes", middleware.Deduplication(cfg.DedupWindow), shoppingH.HandleAppend)
			listGroup.PATCH("/:id/items/:itemId", shoppingH.HandleUpdateItem)
			listGroup.DELETE("/:id/items/:itemId", shoppingH.HandleDeleteItem)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Duration("dedup_window", cfg.DedupWindow),
	)

	return router
}
