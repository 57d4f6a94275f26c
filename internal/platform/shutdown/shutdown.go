package shutdown

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RealReview/realreview-backend/internal/platform/database"
	"github.com/RealReview/realreview-backend/pkg/lifecycle"
)

// Coordinator 负责编排应用程序的优雅停机流程。
// 它接收外部创建的生命周期管理器，并使用它来协调后台任务的退出。
type Coordinator struct {
	BackgroundManager *lifecycle.Manager
}

// NewCoordinator 创建一个新的停机协调器。
func NewCoordinator(backgroundMgr *lifecycle.Manager) *Coordinator {
	return &Coordinator{
		BackgroundManager: backgroundMgr,
	}
}

// ListenForSignalsAndShutdown 启动信号监听并阻塞，直到停机流程完成。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 阻塞直到接收到停机信号
	<-sigChan
	fmt.Println("\n收到关闭信号，开始优雅停机...")

	// 关闭HTTP服务器，允许正在进行的请求完成
	httpTimeout := 15 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Gin服务器关闭错误: %v\n", err)
	} else {
		fmt.Println("Gin服务器已关闭。")
	}

	// 通知后台任务退出，并在限定时间内等待它们完成
	backgroundTimeout := 30 * time.Second
	c.BackgroundManager.Shutdown()
	remainingServices := c.BackgroundManager.WaitWithTimeout(backgroundTimeout)
	if len(remainingServices) == 0 {
		fmt.Println("所有后台服务已优雅关闭。")
	} else {
		fmt.Printf("警告: 以下后台服务未能在 %v 内退出: %v\n", backgroundTimeout, remainingServices)
	}

	// --- 最终步骤 ---
	// 外部连接最后关闭，保证后台任务退出前仍然可用
	database.CloseRedis()
	database.CloseDB()

	fmt.Println("优雅停机完成。")
}
