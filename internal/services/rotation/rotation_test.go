package rotation

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/backuper/internal/interfaces/infra"
	"github.com/sunr3d/backuper/internal/mocks"
	"github.com/sunr3d/backuper/models"
)

const (
	testBucket   = "lugnasad"
	testBucketID = "bucket-1"
)

func setupTestRotator(t *testing.T) (*rotator, *mocks.ObjectStore) {
	store := mocks.NewObjectStore(t)
	r := New(zaptest.NewLogger(t), store, testBucket, nil).(*rotator)
	return r, store
}

func expectSession(store *mocks.ObjectStore) {
	store.On("Authorize", mock.Anything).Return(nil)
	store.On("ListBuckets", mock.Anything).Return([]infra.Bucket{
		{BucketID: "other", BucketName: "other"},
		{BucketID: testBucketID, BucketName: testBucket},
	}, nil).Once()
}

func writeArtifact(t *testing.T, tier models.Tier, content string) *models.Artifact {
	path := filepath.Join(t.TempDir(), tier.FileName())
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return &models.Artifact{Tier: tier, Path: path, Passphrase: "p"}
}

func strPtr(s string) *string { return &s }

func TestRotator_ListVersions(t *testing.T) {
	r, store := setupTestRotator(t)
	expectSession(store)

	ts := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	store.On("ListFileVersions", mock.Anything, infra.ListVersionsRequest{BucketID: testBucketID, MaxFileCount: listPageSize}).
		Return(&infra.ListVersionsResponse{
			Files: []infra.FileVersionEntry{
				{FileID: "1", FileName: "day.7z", Action: "upload", UploadTimestamp: ts.UnixMilli()},
			},
			NextFileName: strPtr("week.7z"),
			NextFileID:   strPtr("2"),
		}, nil).Once()
	store.On("ListFileVersions", mock.Anything, infra.ListVersionsRequest{
		BucketID: testBucketID, StartFileName: "week.7z", StartFileID: "2", MaxFileCount: listPageSize,
	}).
		Return(&infra.ListVersionsResponse{
			Files: []infra.FileVersionEntry{
				{FileID: "2", FileName: "week.7z", Action: "upload", UploadTimestamp: ts.UnixMilli()},
				{FileID: "3", FileName: "old/", Action: "folder"},
			},
		}, nil).Once()

	versions, err := r.ListVersions(context.Background())

	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "day.7z", versions[0].FileName)
	assert.True(t, ts.Equal(versions[0].UploadTimestamp))
	assert.Equal(t, "week.7z", versions[1].FileName)
}

func TestRotator_ListVersions_BucketNotFound(t *testing.T) {
	r, store := setupTestRotator(t)
	store.On("Authorize", mock.Anything).Return(nil).Once()
	store.On("ListBuckets", mock.Anything).Return([]infra.Bucket{{BucketID: "x", BucketName: "x"}}, nil).Once()

	_, err := r.ListVersions(context.Background())

	assert.ErrorIs(t, err, ErrBucketNotFound)
	assert.ErrorIs(t, err, models.ErrConfig)
}

func TestRotator_ListVersions_AuthorizeFailed(t *testing.T) {
	r, store := setupTestRotator(t)
	store.On("Authorize", mock.Anything).Return(errors.New("401 unauthorized")).Once()

	_, err := r.ListVersions(context.Background())

	assert.ErrorIs(t, err, ErrAuthorize)
	assert.ErrorIs(t, err, models.ErrRemoteStore)
}

func TestRotator_Rotate_NoOldVersions(t *testing.T) {
	r, store := setupTestRotator(t)
	expectSession(store)
	artifact := writeArtifact(t, models.TierDaily, "archive-bytes")
	sum := sha1.Sum([]byte("archive-bytes"))
	target := &infra.UploadTarget{BucketID: testBucketID, Handle: "upload-url"}

	store.On("ListFileVersions", mock.Anything, infra.ListVersionsRequest{
		BucketID: testBucketID, StartFileName: "day.7z", Prefix: "day.7z", MaxFileCount: listPageSize,
	}).Return(&infra.ListVersionsResponse{}, nil).Once()
	store.On("GetUploadURL", mock.Anything, testBucketID).Return(target, nil).Once()
	store.On("UploadFile", mock.Anything, infra.UploadRequest{
		Target:   target,
		FileName: "day.7z",
		Data:     []byte("archive-bytes"),
		SHA1:     hex.EncodeToString(sum[:]),
	}).Return(&infra.UploadResponse{
		FileID: "new-id", FileName: "day.7z", BucketID: testBucketID, ContentLength: 13, UploadTimestamp: 1754000000000,
	}, nil).Once()

	result, err := r.Rotate(context.Background(), artifact)

	require.NoError(t, err)
	assert.Equal(t, "new-id", result.FileID)
	assert.Equal(t, int64(13), result.ContentLength)
	assert.Equal(t, int64(1754000000000), result.UploadTimestamp)
	store.AssertNotCalled(t, "DeleteFileVersion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRotator_Rotate_DeletesOnlyExactName(t *testing.T) {
	r, store := setupTestRotator(t)
	expectSession(store)
	artifact := writeArtifact(t, models.TierDaily, "data")

	store.On("ListFileVersions", mock.Anything, mock.Anything).Return(&infra.ListVersionsResponse{
		Files: []infra.FileVersionEntry{
			{FileID: "d1", FileName: "day.7z", Action: "upload"},
			{FileID: "d2", FileName: "day.7z", Action: "upload"},
			{FileID: "m1", FileName: "month.7z", Action: "upload"},
		},
	}, nil).Once()

	var deleted atomic.Int32
	var uploadedAfterDelete bool
	store.On("DeleteFileVersion", mock.Anything, testBucketID, mock.Anything, "day.7z").
		Run(func(mock.Arguments) {
			time.Sleep(10 * time.Millisecond)
			deleted.Add(1)
		}).
		Return(nil).Twice()
	store.On("GetUploadURL", mock.Anything, testBucketID).Return(&infra.UploadTarget{BucketID: testBucketID}, nil).Once()
	store.On("UploadFile", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { uploadedAfterDelete = deleted.Load() == 2 }).
		Return(&infra.UploadResponse{FileID: "new"}, nil).Once()

	_, err := r.Rotate(context.Background(), artifact)

	require.NoError(t, err)
	assert.True(t, uploadedAfterDelete)
	store.AssertCalled(t, "DeleteFileVersion", mock.Anything, testBucketID, "d1", "day.7z")
	store.AssertCalled(t, "DeleteFileVersion", mock.Anything, testBucketID, "d2", "day.7z")
	store.AssertNotCalled(t, "DeleteFileVersion", mock.Anything, testBucketID, "m1", "month.7z")
}

func TestRotator_Rotate_DeleteFailedAbortsUpload(t *testing.T) {
	r, store := setupTestRotator(t)
	expectSession(store)
	artifact := writeArtifact(t, models.TierWeekly, "data")

	store.On("ListFileVersions", mock.Anything, mock.Anything).Return(&infra.ListVersionsResponse{
		Files: []infra.FileVersionEntry{
			{FileID: "w1", FileName: "week.7z"},
			{FileID: "w2", FileName: "week.7z"},
		},
	}, nil).Once()
	store.On("DeleteFileVersion", mock.Anything, testBucketID, "w1", "week.7z").Return(errors.New("500")).Once()
	store.On("DeleteFileVersion", mock.Anything, testBucketID, "w2", "week.7z").Return(nil).Once()

	_, err := r.Rotate(context.Background(), artifact)

	assert.ErrorIs(t, err, ErrDeleteFailed)
	assert.ErrorIs(t, err, models.ErrRemoteStore)
	store.AssertNotCalled(t, "GetUploadURL", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything)
}

func TestRotator_Rotate_UploadFailed(t *testing.T) {
	r, store := setupTestRotator(t)
	expectSession(store)
	artifact := writeArtifact(t, models.TierMonthly, "data")

	store.On("ListFileVersions", mock.Anything, mock.Anything).Return(&infra.ListVersionsResponse{}, nil).Once()
	store.On("GetUploadURL", mock.Anything, testBucketID).Return(&infra.UploadTarget{BucketID: testBucketID}, nil).Once()
	store.On("UploadFile", mock.Anything, mock.Anything).Return(nil, errors.New("bad_request: sha1 mismatch")).Once()

	_, err := r.Rotate(context.Background(), artifact)

	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Contains(t, err.Error(), "sha1 mismatch")
}

func TestRotator_BucketResolvedAgainAfterStoreError(t *testing.T) {
	r, store := setupTestRotator(t)
	store.On("Authorize", mock.Anything).Return(nil)
	store.On("ListBuckets", mock.Anything).Return([]infra.Bucket{
		{BucketID: testBucketID, BucketName: testBucket},
	}, nil).Once()
	store.On("ListBuckets", mock.Anything).Return([]infra.Bucket{
		{BucketID: "bucket-2", BucketName: testBucket},
	}, nil).Once()
	store.On("ListFileVersions", mock.Anything, infra.ListVersionsRequest{BucketID: testBucketID, MaxFileCount: listPageSize}).
		Return(nil, errors.New("400 bad_bucket_id")).Once()
	store.On("ListFileVersions", mock.Anything, infra.ListVersionsRequest{BucketID: "bucket-2", MaxFileCount: listPageSize}).
		Return(&infra.ListVersionsResponse{}, nil).Once()

	_, err := r.ListVersions(context.Background())
	require.ErrorIs(t, err, ErrListVersions)

	_, err = r.ListVersions(context.Background())
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "ListBuckets", 2)
}

func TestRotator_LocalErrorsClassified(t *testing.T) {
	r, store := setupTestRotator(t)
	expectSession(store)
	store.On("ListFileVersions", mock.Anything, mock.Anything).Return(&infra.ListVersionsResponse{}, nil).Once()
	store.On("GetUploadURL", mock.Anything, testBucketID).Return(&infra.UploadTarget{BucketID: testBucketID}, nil).Once()

	missing := &models.Artifact{Tier: models.TierDaily, Path: filepath.Join(t.TempDir(), "day.7z")}
	_, err := r.Rotate(context.Background(), missing)
	assert.ErrorIs(t, err, ErrArtifactRead)
	assert.ErrorIs(t, err, models.ErrExternalTool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.ListVersions(ctx)
	assert.ErrorIs(t, err, ErrContextDone)
	assert.ErrorIs(t, err, models.ErrRemoteStore)
}

func TestRotator_BucketResolvedOnce(t *testing.T) {
	r, store := setupTestRotator(t)
	expectSession(store)
	store.On("ListFileVersions", mock.Anything, mock.Anything).Return(&infra.ListVersionsResponse{}, nil).Twice()

	_, err := r.ListVersions(context.Background())
	require.NoError(t, err)
	_, err = r.ListVersions(context.Background())
	require.NoError(t, err)

	store.AssertNumberOfCalls(t, "Authorize", 2)
	store.AssertNumberOfCalls(t, "ListBuckets", 1)
}
