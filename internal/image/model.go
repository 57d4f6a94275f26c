package image

import "time"

// Metadata 定义了图片元数据在数据库中的持久化模型
// 记录在创建后不会被修改，也没有删除操作
type Metadata struct {
	ID uint `gorm:"primarykey" json:"id"`

	// Filename 是服务端生成的磁盘文件名，全局唯一
	// 由随机UUID加上原始文件的扩展名构成
	Filename string `gorm:"uniqueIndex;not null;type:varchar(255)" json:"filename"`

	// OriginalFilename 是客户端上传时的原始文件名，仅用于展示
	OriginalFilename string `gorm:"not null" json:"original_filename"`

	// UploaderName 是可选的上传者名字，未提供时为NULL
	UploaderName *string `json:"uploader_name"`

	// Location 是可选的拍摄地点，未提供时为NULL
	Location *string `json:"location"`

	// UploadTimestamp 是记录创建时间，由GORM在插入时自动填充
	UploadTimestamp time.Time `gorm:"autoCreateTime" json:"upload_timestamp"`

	// 预留：审核状态(is_approved)与评分(rating)字段计划在后续版本加入
}

// TableName 固定表名，保持与既有数据的兼容
func (Metadata) TableName() string {
	return "image_metadata"
}
