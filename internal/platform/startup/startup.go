package startup

import (
	"fmt"

	"github.com/RealReview/realreview-backend/internal/image"
)

// InitializeApplication 是应用首次启动时执行的总入口
// 按依赖顺序初始化各业务模块，任何一步失败都会中止启动
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := image.PrimeDB(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}
