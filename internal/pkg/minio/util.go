package minio

import (
	"Propermint/internal/api/config"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// UploadFile 上传文件到MinIO
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, ImageBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// DownloadFile 读取对象，调用方负责关闭
func DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if Client == nil {
		return nil, fmt.Errorf("minio client is not initialized")
	}

	obj, err := Client.GetObject(ctx, ImageBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	// GetObject 是惰性的，Stat 才会真正请求
	if _, err = obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return obj, nil
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	cfg := config.Cfg.MinIO
	return fmt.Sprintf("https://%s/%s/%s", cfg.ExternalEndpoint, ImageBucket, objectName)
}

// ImageStore 以包级客户端实现对象读写
type ImageStore struct{}

func NewImageStore() *ImageStore {
	return &ImageStore{}
}

func (ImageStore) GetObject(ctx context.Context, objectName string) (io.ReadCloser, error) {
	return DownloadFile(ctx, objectName)
}

func (ImageStore) PutObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := UploadFile(ctx, objectName, reader, size, contentType)
	return err
}
