// Package gormstore 以 GORM 實作知識庫、食譜與購物清單的儲存（postgres / sqlite）
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"ingredient-engine/internal/infrastructure/config"
	"ingredient-engine/internal/pkg/common"
)

// Store GORM 儲存
type Store struct {
	db *gorm.DB
}

// Open 依設定連線並自動遷移資料表
func Open(cfg config.StorageConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.StoragePostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.StorageSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	// sqlite 記憶體資料庫每條連線各自獨立
	if cfg.Driver == config.StorageSQLite && strings.Contains(cfg.DSN, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	store, err := New(db)
	if err != nil {
		return nil, err
	}
	common.LogInfo("資料庫連線成功", zap.String("driver", cfg.Driver))
	return store, nil
}

// New 以既有連線建立儲存並遷移資料表
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// DB 底層連線
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound 將 gorm.ErrRecordNotFound 轉為 common.ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func nameKey(name string) string {
	return strings.ToLower(common.CollapseSpaces(name))
}
