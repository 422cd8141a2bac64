package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Srushti-98/sales-pulse-dashboard/config"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitSQLite 初始化 SQLite 运行记录库
func InitSQLite() error {
	path := config.Cfg.SQLite.Path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}

	var logLevel logger.LogLevel
	if config.Cfg.SQLite.LogMode {
		logLevel = logger.Info
	} else {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("打开运行记录库失败: %w", err)
	}

	// 自动迁移
	if err := db.AutoMigrate(&models.EtlRun{}); err != nil {
		return fmt.Errorf("迁移运行记录库失败: %w", err)
	}

	DB = db
	return nil
}

// CloseSQLite 关闭运行记录库
func CloseSQLite() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
