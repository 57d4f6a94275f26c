package database

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/RealReview/realreview-backend/internal/platform/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// openDialector 根据数据库URL选择驱动
// postgres:// 和 postgresql:// 前缀使用PostgreSQL，
// sqlite:// 前缀会被剥离后作为文件路径，其余情况直接当作SQLite文件路径
func openDialector(url string) gorm.Dialector {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url)
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
	default:
		return sqlite.Open(url)
	}
}

// InitDB 初始化数据库连接
func InitDB(cfg config.DatabaseConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	// TranslateError 让驱动层的唯一约束冲突统一转换为 gorm.ErrDuplicatedKey
	DB, err = gorm.Open(openDialector(cfg.URL), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})

	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	fmt.Println("数据库连接成功！")
}

// CloseDB 在停机时关闭底层的数据库连接池
func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		fmt.Printf("无法获取底层数据库连接: %v\n", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		fmt.Printf("关闭数据库连接失败: %v\n", err)
	} else {
		fmt.Println("数据库连接已关闭。")
	}
}
