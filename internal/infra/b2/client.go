package b2

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Backblaze/blazer/base"
	"go.uber.org/zap"

	"github.com/sunr3d/backuper/internal/interfaces/infra"
)

const (
	contentType = "b2/x-auto"
	userAgent   = "backuper"
)

var _ infra.ObjectStore = (*Client)(nil)

// Client - адаптер infra.ObjectStore поверх blazer/base (B2 native API).
type Client struct {
	logger    *zap.Logger
	accountID string
	appKey    string
	timeout   time.Duration
	opts      []base.AuthOption

	mu      sync.RWMutex
	b2      *base.B2
	buckets map[string]*base.Bucket
}

// New создает клиент. timeout ограничивает каждый вызов API, 0 - без ограничения.
func New(log *zap.Logger, apiURL, accountID, appKey string, timeout time.Duration, opts ...base.AuthOption) *Client {
	all := []base.AuthOption{base.UserAgent(userAgent)}
	if apiURL != "" {
		all = append(all, base.SetAPIBase(strings.TrimRight(apiURL, "/")))
	}
	return &Client{
		logger:    log,
		accountID: accountID,
		appKey:    appKey,
		timeout:   timeout,
		opts:      append(all, opts...),
		buckets:   make(map[string]*base.Bucket),
	}
}

// Authorize получает новый токен. Уже выданные бакеты продолжают работать с обновленной сессией.
func (c *Client) Authorize(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	sess, err := base.AuthorizeAccount(ctx, c.accountID, c.appKey, c.opts...)
	if err != nil {
		return wrapErr("b2_authorize_account", err)
	}

	c.mu.Lock()
	if c.b2 == nil {
		c.b2 = sess
	} else {
		c.b2.Update(sess)
	}
	c.mu.Unlock()

	c.logger.Debug("авторизация B2 выполнена")
	return nil
}

func (c *Client) ListBuckets(ctx context.Context) ([]infra.Bucket, error) {
	sess, err := c.session()
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	found, err := sess.ListBuckets(ctx, "")
	if err != nil {
		return nil, wrapErr("b2_list_buckets", err)
	}

	buckets := make(map[string]*base.Bucket, len(found))
	out := make([]infra.Bucket, 0, len(found))
	for _, b := range found {
		buckets[b.ID] = b
		out = append(out, infra.Bucket{BucketID: b.ID, BucketName: b.Name, BucketType: b.Type})
	}

	c.mu.Lock()
	c.buckets = buckets
	c.mu.Unlock()

	return out, nil
}

func (c *Client) ListFileVersions(ctx context.Context, r infra.ListVersionsRequest) (*infra.ListVersionsResponse, error) {
	bucket, err := c.bucket(r.BucketID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	files, nextName, nextID, err := bucket.ListFileVersions(ctx, r.MaxFileCount, r.StartFileName, r.StartFileID, r.Prefix, "")
	if err != nil {
		return nil, wrapErr("b2_list_file_versions", err)
	}

	resp := &infra.ListVersionsResponse{Files: make([]infra.FileVersionEntry, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, infra.FileVersionEntry{
			FileID:          f.ID,
			FileName:        f.Name,
			Action:          f.Status,
			ContentLength:   f.Size,
			UploadTimestamp: f.Timestamp.UnixMilli(),
		})
	}
	if nextName != "" {
		resp.NextFileName = &nextName
	}
	if nextID != "" {
		resp.NextFileID = &nextID
	}
	return resp, nil
}

func (c *Client) GetUploadURL(ctx context.Context, bucketID string) (*infra.UploadTarget, error) {
	bucket, err := c.bucket(bucketID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	url, err := bucket.GetUploadURL(ctx)
	if err != nil {
		return nil, wrapErr("b2_get_upload_url", err)
	}
	return &infra.UploadTarget{BucketID: bucketID, Handle: url}, nil
}

// UploadFile загружает файл целиком; хранилище проверяет X-Bz-Content-Sha1.
func (c *Client) UploadFile(ctx context.Context, r infra.UploadRequest) (*infra.UploadResponse, error) {
	if r.Target == nil {
		return nil, ErrInvalidTarget
	}
	url, ok := r.Target.Handle.(*base.URL)
	if !ok || url == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidTarget, r.Target.Handle)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	f, err := url.UploadFile(ctx, bytes.NewReader(r.Data), len(r.Data), r.FileName, contentType, r.SHA1, nil)
	if err != nil {
		return nil, wrapErr("b2_upload_file", err)
	}

	return &infra.UploadResponse{
		FileID:          f.ID,
		FileName:        f.Name,
		BucketID:        r.Target.BucketID,
		ContentLength:   f.Size,
		ContentSHA1:     r.SHA1,
		Action:          f.Status,
		UploadTimestamp: f.Timestamp.UnixMilli(),
	}, nil
}

func (c *Client) DeleteFileVersion(ctx context.Context, bucketID, fileID, fileName string) error {
	bucket, err := c.bucket(bucketID)
	if err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := bucket.File(fileID, fileName).DeleteFileVersion(ctx); err != nil {
		return wrapErr("b2_delete_file_version", err)
	}
	return nil
}

func (c *Client) session() (*base.B2, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.b2 == nil {
		return nil, ErrNotAuthorized
	}
	return c.b2, nil
}

func (c *Client) bucket(id string) (*base.Bucket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.b2 == nil {
		return nil, ErrNotAuthorized
	}
	b, ok := c.buckets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBucket, id)
	}
	return b, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
