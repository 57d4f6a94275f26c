package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/RealReview/realreview-backend/api"
	"github.com/RealReview/realreview-backend/internal/image"
	"github.com/RealReview/realreview-backend/internal/platform/config"
	"github.com/RealReview/realreview-backend/internal/platform/database"
	"github.com/RealReview/realreview-backend/internal/platform/shutdown"
	"github.com/RealReview/realreview-backend/internal/platform/startup"
	"github.com/RealReview/realreview-backend/internal/platform/storage"
	"github.com/RealReview/realreview-backend/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 加载配置，缺少DATABASE_URL时在这里直接失败
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("配置加载失败，无法启动: %v", err))
	}

	// 2. 初始化外部依赖
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Redis)
	if err := storage.Init(cfg.Upload.Dir); err != nil {
		panic(fmt.Sprintf("上传目录初始化失败: %v", err))
	}

	// 3. 注入模块策略并执行应用首次启动初始化流程
	image.ConfigureModule(cfg.Cleanup)
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r, cfg)

	// 4. 按配置启动后台的孤立文件清理任务
	backgroundMgr := lifecycle.NewManager()
	if image.SweeperEnabled() {
		handle, err := backgroundMgr.NewServiceHandle("orphan-sweeper")
		if err != nil {
			panic(fmt.Sprintf("无法注册孤立文件清理服务: %v", err))
		}
		go image.StartOrphanSweeper(handle)
	}

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 5. 阻塞等待停机信号，随后依次排空HTTP、停止后台任务、断开连接
	coordinator := shutdown.NewCoordinator(backgroundMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
