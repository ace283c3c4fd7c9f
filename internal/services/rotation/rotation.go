package rotation

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sunr3d/backuper/internal/interfaces/infra"
	"github.com/sunr3d/backuper/internal/interfaces/services"
	"github.com/sunr3d/backuper/internal/metrics"
	"github.com/sunr3d/backuper/models"
)

const listPageSize = 1000

var _ services.Rotator = (*rotator)(nil)

type rotator struct {
	store      infra.ObjectStore
	logger     *zap.Logger
	metrics    *metrics.Metrics
	bucketName string

	mu       sync.Mutex
	bucketID string
}

func New(log *zap.Logger, store infra.ObjectStore, bucketName string, m *metrics.Metrics) services.Rotator {
	return &rotator{
		store:      store,
		logger:     log,
		metrics:    m,
		bucketName: bucketName,
	}
}

// ListVersions возвращает все версии всех файлов бакета.
func (r *rotator) ListVersions(ctx context.Context) ([]models.FileVersion, error) {
	bucketID, err := r.session(ctx)
	if err != nil {
		return nil, err
	}

	r.logger.Info("загрузка списка файлов", zap.String("bucket", r.bucketName))
	entries, err := r.listAll(ctx, infra.ListVersionsRequest{BucketID: bucketID})
	if err != nil {
		r.forgetBucket()
		return nil, err
	}

	versions := make([]models.FileVersion, 0, len(entries))
	for _, e := range entries {
		versions = append(versions, toFileVersion(e))
	}
	r.logger.Info("список файлов получен", zap.Int("versions", len(versions)))
	return versions, nil
}

// Rotate удаляет все версии файла уровня и загружает новый архив.
// Загрузка начинается только после завершения всех удалений.
func (r *rotator) Rotate(ctx context.Context, artifact *models.Artifact) (*models.UploadResult, error) {
	bucketID, err := r.session(ctx)
	if err != nil {
		return nil, err
	}

	fileName := artifact.Tier.FileName()
	old, err := r.listAll(ctx, infra.ListVersionsRequest{
		BucketID:      bucketID,
		StartFileName: fileName,
		Prefix:        fileName,
	})
	if err != nil {
		r.forgetBucket()
		return nil, err
	}

	if err := r.deleteVersions(ctx, bucketID, fileName, old); err != nil {
		return nil, err
	}

	r.logger.Info("получение адреса загрузки")
	target, err := r.store.GetUploadURL(ctx, bucketID)
	if err != nil {
		r.forgetBucket()
		return nil, fmt.Errorf("%w: %v", ErrUploadURL, err)
	}

	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactRead, err)
	}
	sum := sha1.Sum(data)

	r.logger.Info("загрузка файла",
		zap.String("file_name", fileName),
		zap.Int("size", len(data)),
	)
	resp, err := r.store.UploadFile(ctx, infra.UploadRequest{
		Target:   target,
		FileName: fileName,
		Data:     data,
		SHA1:     hex.EncodeToString(sum[:]),
	})
	if err != nil {
		r.forgetBucket()
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	r.metrics.ObserveUpload(artifact.Tier, resp.ContentLength)
	r.logger.Info("файл загружен",
		zap.String("file_id", resp.FileID),
		zap.String("file_name", resp.FileName),
		zap.Int64("content_length", resp.ContentLength),
	)

	return &models.UploadResult{
		FileID:          resp.FileID,
		FileName:        resp.FileName,
		BucketID:        resp.BucketID,
		ContentLength:   resp.ContentLength,
		ContentSHA1:     resp.ContentSHA1,
		Action:          resp.Action,
		UploadTimestamp: resp.UploadTimestamp,
	}, nil
}

// session авторизуется в хранилище и находит бакет по имени.
func (r *rotator) session(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if err := r.store.Authorize(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthorize, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bucketID != "" {
		return r.bucketID, nil
	}

	r.logger.Info("загрузка списка бакетов")
	buckets, err := r.store.ListBuckets(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrListBuckets, err)
	}
	for _, b := range buckets {
		if b.BucketName == r.bucketName {
			r.bucketID = b.BucketID
			r.logger.Info("бакет найден",
				zap.String("bucket", b.BucketName),
				zap.String("bucket_id", b.BucketID),
			)
			return r.bucketID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrBucketNotFound, r.bucketName)
}

// forgetBucket сбрасывает найденный бакет: после ошибки хранилища следующий запуск ищет его заново.
func (r *rotator) forgetBucket() {
	r.mu.Lock()
	r.bucketID = ""
	r.mu.Unlock()
}

// listAll проходит все страницы листинга. При заданном Prefix остаются только версии
// с именем, точно равным Prefix: startFileName сам по себе возвращает и все последующие имена.
func (r *rotator) listAll(ctx context.Context, req infra.ListVersionsRequest) ([]infra.FileVersionEntry, error) {
	req.MaxFileCount = listPageSize
	exact := req.Prefix

	var out []infra.FileVersionEntry
	for {
		resp, err := r.store.ListFileVersions(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrListVersions, err)
		}
		for _, f := range resp.Files {
			if f.Action == "folder" {
				continue
			}
			if exact != "" && f.FileName != exact {
				continue
			}
			out = append(out, f)
		}
		if resp.NextFileName == nil || *resp.NextFileName == "" {
			return out, nil
		}
		if exact != "" && *resp.NextFileName != exact {
			return out, nil
		}
		req.StartFileName = *resp.NextFileName
		req.StartFileID = ""
		if resp.NextFileID != nil {
			req.StartFileID = *resp.NextFileID
		}
	}
}

func (r *rotator) deleteVersions(ctx context.Context, bucketID, fileName string, versions []infra.FileVersionEntry) error {
	if len(versions) == 0 {
		r.logger.Info("старых версий файла нет", zap.String("file_name", fileName))
		return nil
	}

	r.logger.Info("удаление старых версий файла",
		zap.String("file_name", fileName),
		zap.Int("versions", len(versions)),
	)

	// Без WithContext: ошибка одного удаления не отменяет остальные.
	var g errgroup.Group
	for _, v := range versions {
		g.Go(func() error {
			if err := r.store.DeleteFileVersion(ctx, bucketID, v.FileID, v.FileName); err != nil {
				r.logger.Error("не удалось удалить версию файла",
					zap.String("file_id", v.FileID),
					zap.String("file_name", v.FileName),
					zap.Error(err),
				)
				return fmt.Errorf("%w: %s: %v", ErrDeleteFailed, v.FileID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.metrics.ObserveDeletedVersions(len(versions))
	r.logger.Info("старые версии файла удалены", zap.String("file_name", fileName))
	return nil
}

func toFileVersion(e infra.FileVersionEntry) models.FileVersion {
	return models.FileVersion{
		FileID:          e.FileID,
		FileName:        e.FileName,
		ContentLength:   e.ContentLength,
		UploadTimestamp: time.UnixMilli(e.UploadTimestamp),
	}
}
