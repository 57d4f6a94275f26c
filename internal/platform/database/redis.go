package database

import (
	"context"
	"fmt"

	"github.com/RealReview/realreview-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是一个全局的Redis客户端实例，未配置Redis时保持为nil
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis数据库的连接
// Redis在本服务中只承担元数据缓存，地址为空时直接跳过初始化
func InitRedis(cfg config.RedisConfig) {
	if cfg.Address == "" {
		fmt.Println("未配置Redis地址，元数据缓存已禁用。")
		return
	}

	// 创建一个新的Redis客户端
	// 使用从配置文件加载的参数
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用Ping命令来测试连接是否成功
	_, err := RDB.Ping(Ctx).Result()
	if err != nil {
		// 如果连接失败，程序将panic并退出，打印出错误信息
		panic("无法连接到Redis: " + err.Error())
	}

	fmt.Println("Redis 连接成功！")
}

// CacheEnabled 报告元数据缓存是否可用
func CacheEnabled() bool {
	return RDB != nil
}

// CloseRedis 在停机时关闭Redis连接
func CloseRedis() {
	if RDB == nil {
		return
	}
	if err := RDB.Close(); err != nil {
		fmt.Printf("关闭Redis连接失败: %v\n", err)
	} else {
		fmt.Println("Redis连接已关闭。")
	}
}
