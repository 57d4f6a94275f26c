package image

import (
	"fmt"
	"time"

	"github.com/RealReview/realreview-backend/internal/platform/config"
	"github.com/RealReview/realreview-backend/internal/platform/database"
)

// --- 清理策略 ---
// 由ConfigureModule在启动时设置，之后只读
var removeOnFailure bool
var sweepInterval time.Duration
var sweepGrace time.Duration

// ConfigureModule 注入image模块的运行策略
func ConfigureModule(cfg config.CleanupConfig) {
	removeOnFailure = cfg.RemoveOnFailure
	sweepInterval = cfg.SweepInterval
	sweepGrace = cfg.SweepGrace
}

// SweeperEnabled 报告后台清理任务是否需要启动
func SweeperEnabled() bool {
	return sweepInterval > 0
}

// PrimeDB 负责初始化image模块的数据库部分
func PrimeDB() error {
	// 1. 迁移数据库表结构
	if err := migrateDB(); err != nil {
		return err
	}
	// 2. 启用缓存时，把存量数据预热到Redis
	if database.CacheEnabled() {
		if err := warmupCache(); err != nil {
			return err
		}
	}
	return nil
}

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Metadata{}); err != nil {
		return fmt.Errorf("无法迁移image_metadata表: %w", err)
	}
	fmt.Println("Image数据库表迁移成功。")
	return nil
}
