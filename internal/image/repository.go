package image

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrDuplicateFilename 表示生成的文件名与数据库中已有记录冲突
// 正常情况下UUID不会碰撞，这个错误意味着磁盘文件与数据库已经不同步
var ErrDuplicateFilename = errors.New("文件名与已有记录冲突")

// InsertMetadata 向数据库写入一条新的图片元数据
// 唯一约束冲突会被包装为 ErrDuplicateFilename 返回，其他错误原样包装
func InsertMetadata(db *gorm.DB, record *Metadata) error {
	if err := db.Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", ErrDuplicateFilename, err)
		}
		return fmt.Errorf("无法写入图片元数据: %w", err)
	}
	return nil
}

// QueryMetadataPage 按主键升序返回一页元数据记录
// skip和limit直接映射为SQL的OFFSET和LIMIT，排序稳定保证分页不重不漏
func QueryMetadataPage(db *gorm.DB, skip, limit int) ([]Metadata, error) {
	var records []Metadata
	err := db.Order("id asc").Offset(skip).Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("无法查询图片元数据列表: %w", err)
	}
	return records, nil
}

// QueryMetadataByID 按主键查询单条元数据
// 记录不存在时返回 (nil, nil)，由调用方决定如何呈现
func QueryMetadataByID(db *gorm.DB, id uint) (*Metadata, error) {
	var record Metadata
	err := db.First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("无法查询ID为 %d 的图片元数据: %w", id, err)
	}
	return &record, nil
}

// QueryKnownFilenames 在给定的文件名中筛选出数据库已登记的部分
// 清理任务用它来区分正常文件和孤立文件
func QueryKnownFilenames(db *gorm.DB, filenames []string) (map[string]struct{}, error) {
	known := make(map[string]struct{}, len(filenames))
	if len(filenames) == 0 {
		return known, nil
	}

	var matched []string
	err := db.Model(&Metadata{}).Where("filename IN ?", filenames).Pluck("filename", &matched).Error
	if err != nil {
		return nil, fmt.Errorf("无法查询已登记的文件名: %w", err)
	}

	for _, name := range matched {
		known[name] = struct{}{}
	}
	return known, nil
}
