package image

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/RealReview/realreview-backend/internal/platform/database"
	"github.com/RealReview/realreview-backend/internal/platform/storage"
	"github.com/RealReview/realreview-backend/pkg/lifecycle"
)

// StartOrphanSweeper 启动一个后台Goroutine来定期清理孤立文件
// 它接收一个lifecycle.Handle来管理其生命周期
func StartOrphanSweeper(handle *lifecycle.Handle) {
	defer handle.Close() // 确保在退出时通知管理器
	fmt.Println("孤立文件清理调度器已启动。")

	for {
		// 使用可中断的休眠来代替ticker。
		// 这使得整个循环可以在收到停机信号时立刻从休眠中唤醒并退出。
		if err := handle.Sleep(sweepInterval); err != nil {
			fmt.Println("清理调度器: 休眠被中断，正在关闭...")
			return
		}

		db := database.DB.WithContext(handle.Ctx())
		removed, err := SweepOrphanFiles(db)
		if err != nil {
			fmt.Printf("清理调度器错误: 扫描孤立文件失败: %v\n", err)
			continue
		}
		if removed > 0 {
			fmt.Printf("清理调度器: 已删除 %d 个孤立文件。\n", removed)
		}
	}
}

// SweepOrphanFiles 执行一次孤立文件扫描并返回删除的文件数
// 只有修改时间早于宽限期、且数据库中没有对应记录的文件才会被删除，
// 宽限期保护的是已落盘但尚未完成入库的上传
func SweepOrphanFiles(db *gorm.DB) (int, error) {
	entries, err := storage.Entries()
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filenames = append(filenames, entry.Name())
	}

	known, err := QueryKnownFilenames(db, filenames)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-sweepGrace)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := known[entry.Name()]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// 文件可能刚被并发删除，跳过即可
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := storage.Remove(entry.Name()); err != nil {
			fmt.Printf("警告: %v\n", err)
			continue
		}
		removed++
	}

	return removed, nil
}
