package service

import (
	"Mundero/internal/pkg/minio"
	"Mundero/internal/pkg/util"
	"bytes"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
)

const thumbnailSize = 256

var allowedMediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

// MediaUploadResult 上传结果
type MediaUploadResult struct {
	ObjectName    string `json:"object_name"`
	URL           string `json:"url"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	ThumbnailName string `json:"thumbnail_name,omitempty"`
}

type MediaService interface {
	Upload(ctx context.Context, userID uint64, reader io.Reader, size int64, contentType string) (*MediaUploadResult, error)
	UploadAvatar(ctx context.Context, userID uint64, reader io.Reader, size int64, contentType string) (*MediaUploadResult, error)
}

type MediaServiceImpl struct {
	userService UserService
}

func NewMediaService(userService UserService) MediaService {
	return &MediaServiceImpl{userService: userService}
}

// Upload 对象以 uuid 命名落入主桶，图片额外生成缩略图
func (s *MediaServiceImpl) Upload(ctx context.Context, userID uint64, reader io.Reader, size int64, contentType string) (*MediaUploadResult, error) {
	ext, ok := allowedMediaTypes[contentType]
	if !ok {
		return nil, ErrFileNotSupported
	}

	objectName := path.Join(fmt.Sprintf("media/%d", userID), uuid.NewString()+ext)

	isImage := strings.HasPrefix(contentType, "image/")
	if !isImage {
		if _, err := minio.UploadFile(ctx, objectName, reader, size, contentType); err != nil {
			return nil, err
		}
		return &MediaUploadResult{
			ObjectName: objectName,
			URL:        minio.GetPublicURL(objectName),
		}, nil
	}

	// 图片要读两遍：原图上传 + 缩略图
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if _, err = minio.UploadFile(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}

	result := &MediaUploadResult{
		ObjectName: objectName,
		URL:        minio.GetPublicURL(objectName),
	}

	thumb, err := util.SquareThumbnail(bytes.NewReader(data), thumbnailSize, 85)
	if err != nil {
		// 动图等不可解码的格式跳过缩略图
		log.WarnContext(ctx, "thumbnail generation failed", "object", objectName, "err", err)
		return result, nil
	}

	thumbName := strings.TrimSuffix(objectName, ext) + "_thumb.jpg"
	thumbData, err := io.ReadAll(thumb)
	if err != nil {
		return result, nil
	}
	if _, err = minio.UploadFile(ctx, thumbName, bytes.NewReader(thumbData), int64(len(thumbData)), "image/jpeg"); err != nil {
		log.WarnContext(ctx, "thumbnail upload failed", "object", thumbName, "err", err)
		return result, nil
	}

	result.ThumbnailName = thumbName
	result.ThumbnailURL = minio.GetPublicURL(thumbName)
	return result, nil
}

// UploadAvatar 上传头像并更新用户资料
func (s *MediaServiceImpl) UploadAvatar(ctx context.Context, userID uint64, reader io.Reader, size int64, contentType string) (*MediaUploadResult, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrFileNotSupported
	}

	result, err := s.Upload(ctx, userID, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	avatarObject := result.ObjectName
	if result.ThumbnailName != "" {
		avatarObject = result.ThumbnailName
	}
	if err = s.userService.UpdateAvatar(ctx, userID, avatarObject); err != nil {
		return nil, err
	}
	return result, nil
}
