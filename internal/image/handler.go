package image

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RealReview/realreview-backend/internal/platform/database"
)

// --- API响应模型 ---

// MetadataResponse 是元数据对外暴露的JSON形态
// 可选字段未提供时序列化为null，而不是占位字符串
type MetadataResponse struct {
	ID               uint      `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	UploaderName     *string   `json:"uploader_name"`
	Location         *string   `json:"location"`
	UploadTimestamp  time.Time `json:"upload_timestamp"`
}

// --- 数据格式化辅助函数 ---

func formatForMetadata(record Metadata) MetadataResponse {
	return MetadataResponse{
		ID:               record.ID,
		Filename:         record.Filename,
		OriginalFilename: record.OriginalFilename,
		UploaderName:     record.UploaderName,
		Location:         record.Location,
		UploadTimestamp:  record.UploadTimestamp,
	}
}

// --- 控制器函数 ---

// UploadImage 处理multipart形式的图片上传
func UploadImage(c *gin.Context) {
	// 1. 取出必需的文件字段
	fileHeader, err := c.FormFile("upload_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求中缺少 upload_file 文件字段"})
		return
	}

	// 2. 收集可选的表单字段，只区分“有没有提供”
	var input CreateInput
	if name, ok := c.GetPostForm("uploader_name"); ok {
		input.UploaderName = &name
	}
	if location, ok := c.GetPostForm("location"); ok {
		input.Location = &location
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取上传的文件"})
		return
	}
	defer src.Close()

	// 3. 交给服务层完成落盘和入库
	db := database.DB.WithContext(c.Request.Context())
	record, err := SaveUploadedImage(db, src, fileHeader.Filename, input)
	if err != nil {
		if errors.Is(err, ErrFileSave) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存图片文件失败"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存图片元数据失败"})
		}
		return
	}

	c.JSON(http.StatusOK, formatForMetadata(*record))
}

// ListImages 分页获取图片元数据列表
func ListImages(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip 参数必须是非负整数"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 参数必须是正整数"})
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	records, err := ListMetadata(db, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取图片列表失败"})
		return
	}

	// 空页返回[]而不是null
	responses := make([]MetadataResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, formatForMetadata(record))
	}
	c.JSON(http.StatusOK, responses)
}

// GetImageByID 根据ID获取单条图片元数据
func GetImageByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "图片ID必须是正整数"})
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	record, err := GetMetadataByID(db, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "数据库查询失败"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("找不到ID为 %d 的图片", id)})
		return
	}

	c.JSON(http.StatusOK, formatForMetadata(*record))
}
