package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ingredient-engine/internal/api"
	"ingredient-engine/internal/core/ai/cache"
	"ingredient-engine/internal/core/ai/openrouter"
	"ingredient-engine/internal/core/importer"
	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/core/parser"
	"ingredient-engine/internal/core/recipe"
	"ingredient-engine/internal/core/shopping"
	"ingredient-engine/internal/infrastructure/config"
	"ingredient-engine/internal/infrastructure/storage/gormstore"
	"ingredient-engine/internal/infrastructure/storage/memory"
	"ingredient-engine/internal/pkg/common"
)

// storage 服務需要的完整儲存介面
type storage interface {
	kb.Store
	importer.RecipeStore
	recipe.Store
	shopping.Store
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx := context.Background()

	store, err := openStorage(cfg.Storage)
	if err != nil {
		common.LogFatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	if cfg.KB.SeedOnStart {
		res, err := kb.Seed(ctx, store, kb.DefaultSeed())
		if err != nil {
			common.LogFatal("Failed to seed knowledge base", zap.Error(err))
		}
		common.LogInfo("知識庫種子資料已寫入",
			zap.Int("ingredients_created", res.IngredientsCreated),
			zap.Int("units_created", res.UnitsCreated),
			zap.Int("modifiers_created", res.ModifiersCreated),
			zap.Int("aliases_added", res.AliasesAdded),
		)
	}

	holder := kb.NewHolder(store)
	if _, err := holder.Reload(ctx); err != nil {
		common.LogFatal("Failed to load knowledge base", zap.Error(err))
	}

	p, closeParser, err := newParser(cfg, holder)
	if err != nil {
		common.LogFatal("Failed to initialize parser", zap.Error(err))
	}
	defer closeParser()

	router := api.SetupRouter(cfg, api.Services{
		KB:       holder,
		Parser:   p,
		Importer: importer.NewReconciler(store, p, holder),
		Recipes:  recipe.NewService(store, p, holder),
		Shopping: shopping.NewService(store, store, common.RangeBound(cfg.Shopping.RangeBound)),
		Storage:  store,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.String("parser_mode", cfg.Parser.Mode),
			zap.String("storage", cfg.Storage.Driver),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

func openStorage(cfg config.StorageConfig) (storage, error) {
	if cfg.Driver == config.StorageMemory {
		common.LogInfo("使用記憶體儲存")
		return memory.NewStore(), nil
	}
	store, err := gormstore.Open(cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// newParser 依設定選定解析器，回傳的關閉函式釋放快取連線
func newParser(cfg *config.Config, src kb.Source) (parser.Parser, func(), error) {
	if cfg.Parser.Mode != config.ParserModeRemote {
		return parser.NewRuleParser(src), func() {}, nil
	}

	store, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	var c parser.Cache
	if store != nil {
		c = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				common.LogWarn("關閉快取失敗", zap.Error(err))
			}
		}
	}

	common.LogInfo("使用遠端解析器",
		zap.String("model", cfg.Parser.Remote.Model),
		zap.Duration("call_delay", cfg.Parser.Remote.CallDelay),
		zap.Bool("cache_enabled", store != nil),
	)
	return parser.NewRemoteParser(src, openrouter.NewClient(cfg.Parser.Remote), c, cfg.Parser.Remote.CallDelay), closeFn, nil
}
