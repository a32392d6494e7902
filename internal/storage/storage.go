package storage

import "mime/multipart"

// FileStorage 文件存储接口，本地存储和 S3 都实现了它
type FileStorage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}
