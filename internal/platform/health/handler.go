package health

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/RealReview/realreview-backend/internal/platform/database"
	"github.com/RealReview/realreview-backend/internal/platform/storage"
)

// Status 逐项检查核心组件并汇总健康状况
// 数据库或存储目录不可用时返回503，供负载均衡和容器探针使用
func Status(c *gin.Context) {
	components := gin.H{}
	healthy := true

	// 数据库连接
	sqlDB, err := database.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		components["database"] = "down"
		healthy = false
	} else {
		components["database"] = "up"
	}

	// 上传目录
	if info, err := os.Stat(storage.Root()); err != nil || !info.IsDir() {
		components["storage"] = "down"
		healthy = false
	} else {
		components["storage"] = "up"
	}

	// 元数据缓存，未配置时不参与健康判定
	if database.CacheEnabled() {
		if err := database.RDB.Ping(c.Request.Context()).Err(); err != nil {
			components["cache"] = "down"
			healthy = false
		} else {
			components["cache"] = "up"
		}
	} else {
		components["cache"] = "disabled"
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}
