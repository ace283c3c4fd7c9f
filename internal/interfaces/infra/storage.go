package infra

import (
	"context"
)

type Bucket struct {
	BucketID   string `json:"bucketId"`
	BucketName string `json:"bucketName"`
	BucketType string `json:"bucketType"`
}

type ListVersionsRequest struct {
	BucketID      string
	StartFileName string
	StartFileID   string
	Prefix        string
	MaxFileCount  int
}

type FileVersionEntry struct {
	FileID          string `json:"fileId"`
	FileName        string `json:"fileName"`
	Action          string `json:"action"`
	ContentLength   int64  `json:"contentLength"`
	UploadTimestamp int64  `json:"uploadTimestamp"`
}

type ListVersionsResponse struct {
	Files        []FileVersionEntry `json:"files"`
	NextFileName *string            `json:"nextFileName"`
	NextFileID   *string            `json:"nextFileId"`
}

// UploadTarget - адрес загрузки, выданный хранилищем. Handle принадлежит реализации ObjectStore.
type UploadTarget struct {
	BucketID string
	Handle   any
}

type UploadRequest struct {
	Target   *UploadTarget
	FileName string
	Data     []byte
	SHA1     string
}

type UploadResponse struct {
	FileID          string `json:"fileId"`
	FileName        string `json:"fileName"`
	BucketID        string `json:"bucketId"`
	ContentLength   int64  `json:"contentLength"`
	ContentSHA1     string `json:"contentSha1"`
	Action          string `json:"action"`
	UploadTimestamp int64  `json:"uploadTimestamp"`
}

// ObjectStore - клиент хранилища объектов с версионированием файлов (B2 native API).
//
//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ObjectStore --output=../../mocks
type ObjectStore interface {
	Authorize(ctx context.Context) error
	ListBuckets(ctx context.Context) ([]Bucket, error)
	ListFileVersions(ctx context.Context, req ListVersionsRequest) (*ListVersionsResponse, error)
	GetUploadURL(ctx context.Context, bucketID string) (*UploadTarget, error)
	UploadFile(ctx context.Context, req UploadRequest) (*UploadResponse, error)
	DeleteFileVersion(ctx context.Context, bucketID, fileID, fileName string) error
}
