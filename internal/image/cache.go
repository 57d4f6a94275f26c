package image

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/RealReview/realreview-backend/internal/platform/database"
)

// MetadataCacheKey 是一个Redis Hash，以记录ID为field缓存元数据JSON
// 记录创建后不可变，因此缓存条目永远不会过期失效
const MetadataCacheKey = "image_metadata"

// cacheMetadata 尽力把一条元数据写入Redis缓存
// 缓存未启用或写入失败都只会降级，不影响主流程
func cacheMetadata(record *Metadata) {
	if !database.CacheEnabled() || record == nil {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return
	}

	field := strconv.FormatUint(uint64(record.ID), 10)
	if err := database.RDB.HSet(database.Ctx, MetadataCacheKey, field, payload).Err(); err != nil {
		fmt.Printf("警告: 无法缓存ID为 %d 的元数据: %v\n", record.ID, err)
	}
}

// lookupCachedMetadata 从Redis缓存查询一条元数据
// 第二个返回值表示是否命中；任何错误都按未命中处理
func lookupCachedMetadata(id uint) (*Metadata, bool) {
	if !database.CacheEnabled() {
		return nil, false
	}

	field := strconv.FormatUint(uint64(id), 10)
	payload, err := database.RDB.HGet(database.Ctx, MetadataCacheKey, field).Result()
	if err != nil {
		return nil, false
	}

	var record Metadata
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		// 缓存内容损坏时丢弃该条目，回退到数据库
		database.RDB.HDel(database.Ctx, MetadataCacheKey, field)
		return nil, false
	}
	return &record, true
}

// warmupCache 把数据库中的全部元数据批量写入Redis
// 使用Pipeline先清空旧数据再整体重建，只在启动时调用
func warmupCache() error {
	var records []Metadata
	if err := database.DB.Find(&records).Error; err != nil {
		return fmt.Errorf("无法读取元数据用于缓存预热: %w", err)
	}

	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, MetadataCacheKey)

	for i := range records {
		payload, err := json.Marshal(&records[i])
		if err != nil {
			return fmt.Errorf("无法序列化ID为 %d 的元数据: %w", records[i].ID, err)
		}
		field := strconv.FormatUint(uint64(records[i].ID), 10)
		pipe.HSet(database.Ctx, MetadataCacheKey, field, payload)
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热元数据缓存到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 条图片元数据到Redis。\n", len(records))
	return nil
}
