package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 每一项都可以通过环境变量或可选的 config.yaml 文件提供
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了元数据数据库的配置
// URL 以 postgres:// 或 postgresql:// 开头时使用PostgreSQL驱动，
// 以 sqlite:// 开头或为普通文件路径时使用SQLite驱动
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// UploadConfig 定义了上传文件存储的配置
type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

// RedisConfig 定义了Redis的配置
// Address 为空时，元数据缓存被禁用，服务只依赖数据库
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CleanupConfig 定义了孤立文件的清理策略
// 默认全部关闭，即元数据写入失败后磁盘文件会保留
type CleanupConfig struct {
	RemoveOnFailure bool          `mapstructure:"removeOnFailure"`
	SweepInterval   time.Duration `mapstructure:"sweepInterval"`
	SweepGrace      time.Duration `mapstructure:"sweepGrace"`
}

// setDefaults 为所有配置项注册默认值
// 注册过的键才能被 AutomaticEnv 发现，因此每个键都必须出现在这里
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.url", "")
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cleanup.removeOnFailure", false)
	v.SetDefault("cleanup.sweepInterval", "0s")
	v.SetDefault("cleanup.sweepGrace", "1h")
}

// LoadConfig 函数负责查找、加载和解析全部配置
// 优先级从高到低：环境变量 > config.yaml > 默认值
func LoadConfig() (*Config, error) {
	// 1. 尝试加载.env文件，把其中的键值注入环境变量
	// 文件不存在是正常情况，直接使用已有的环境变量
	if err := godotenv.Load(); err == nil {
		fmt.Println("已加载 .env 文件。")
	}

	v := viper.New()

	// 2. 注册所有默认值
	setDefaults(v)

	// 3. 设置环境变量支持
	// 例如 upload.dir 对应环境变量 UPLOAD_DIR
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 读取可选的配置文件
	// 可以添加多个路径，Viper会按顺序查找
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config") // `config/config.yaml`
	v.AddConfigPath(".")        // `./config.yaml` (如果在根目录)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("无法读取配置文件: %w", err)
		}
		// 没有配置文件时完全依赖环境变量和默认值
	}

	// 5. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置: %w", err)
	}

	// 6. 校验必填项
	if cfg.Database.URL == "" {
		return nil, errors.New("必须设置 DATABASE_URL 环境变量")
	}
	if cfg.Cleanup.SweepInterval > 0 && cfg.Cleanup.SweepGrace < 0 {
		return nil, errors.New("CLEANUP_SWEEPGRACE 不能为负数")
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}
