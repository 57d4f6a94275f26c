package storage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// root 是上传文件的存储根目录，由Init设置，启动后只读
var root string

// Init 记录存储根目录并确保它存在
// 应用启动时必须且只能调用一次，目录不可用时启动应当失败
func Init(dir string) error {
	if dir == "" {
		return fmt.Errorf("上传目录不能为空")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("无法创建上传目录 %s: %w", dir, err)
	}
	root = dir
	fmt.Printf("上传目录已就绪: %s\n", dir)
	return nil
}

// Root 返回存储根目录
func Root() string {
	return root
}

// Path 返回文件在存储根目录下的完整路径
// filepath.Base 保证来自客户端的文件名无法逃出根目录
func Path(filename string) string {
	return filepath.Join(root, filepath.Base(filename))
}

// Save 以生成的唯一文件名保存一个完整的数据流，并返回该文件名
// 文件名由随机UUID与原始文件的扩展名拼接而成，与原始文件名无关
func Save(src io.Reader, originalName string) (string, error) {
	ext := filepath.Ext(filepath.Base(originalName))
	filename := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(root, filename))
	if err != nil {
		return "", fmt.Errorf("无法创建文件 %s: %w", filename, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		// 写入中断时尽力清理残留的半成品文件
		dst.Close()
		os.Remove(filepath.Join(root, filename))
		return "", fmt.Errorf("无法写入文件 %s: %w", filename, err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(filepath.Join(root, filename))
		return "", fmt.Errorf("无法完成文件 %s 的写入: %w", filename, err)
	}

	return filename, nil
}

// Remove 删除存储根目录下的一个文件
func Remove(filename string) error {
	if err := os.Remove(Path(filename)); err != nil {
		return fmt.Errorf("无法删除文件 %s: %w", filename, err)
	}
	return nil
}

// Exists 报告文件是否存在于存储根目录下
func Exists(filename string) bool {
	_, err := os.Stat(Path(filename))
	return err == nil
}

// Entries 返回存储根目录下的全部目录项，供清理任务扫描
func Entries() ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("无法读取上传目录 %s: %w", root, err)
	}
	return entries, nil
}
