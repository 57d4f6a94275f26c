package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RealReview/realreview-backend/internal/image"
	"github.com/RealReview/realreview-backend/internal/platform/config"
	"github.com/RealReview/realreview-backend/internal/platform/health"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine, cfg *config.Config) {
	// 根路径返回固定的欢迎信息
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to RealReview Backend MVP"})
	})

	router.GET("/health", health.Status)

	// 图片上传
	router.POST("/upload", image.UploadImage)

	// 元数据读取相关的路由组
	images := router.Group("/images")
	{
		images.GET("/", image.ListImages)
		images.GET("/:id", image.GetImageByID)
	}

	// 上传的图片文件以静态资源方式对外提供
	router.Static("/uploads", cfg.Upload.Dir)
}
