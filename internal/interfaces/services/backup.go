package services

import (
	"context"

	"github.com/sunr3d/backuper/models"
)

type BackupService interface {
	Run(ctx context.Context) (*models.RunRecord, error)

	GetRun(ctx context.Context, runID string) (*models.RunRecord, error)
	ListRuns(ctx context.Context) ([]*models.RunRecord, error)
}

type Archiver interface {
	Produce(ctx context.Context, tier models.Tier) (*models.Artifact, error)
}

type Rotator interface {
	ListVersions(ctx context.Context) ([]models.FileVersion, error)
	Rotate(ctx context.Context, artifact *models.Artifact) (*models.UploadResult, error)
}

type Notifier interface {
	NotifySuccess(ctx context.Context, outcome models.RunOutcome)
	NotifyFailure(ctx context.Context, runErr error)
	Wait()
}
