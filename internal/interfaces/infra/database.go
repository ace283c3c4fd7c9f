package infra

import (
	"context"

	"github.com/sunr3d/backuper/models"
)

type RunRepository interface {
	SaveRun(ctx context.Context, run *models.RunRecord) error
	GetRun(ctx context.Context, id string) (*models.RunRecord, error)
	ListRuns(ctx context.Context) ([]*models.RunRecord, error)
	DeleteRun(ctx context.Context, id string) error
}
