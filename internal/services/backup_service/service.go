package backup_service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunr3d/backuper/internal/config"
	"github.com/sunr3d/backuper/internal/interfaces/infra"
	"github.com/sunr3d/backuper/internal/interfaces/services"
	"github.com/sunr3d/backuper/internal/metrics"
	"github.com/sunr3d/backuper/internal/services/policy"
	"github.com/sunr3d/backuper/models"
)

var _ services.BackupService = (*backupService)(nil)

type Deps struct {
	Repo     infra.RunRepository
	Policy   *policy.Evaluator
	Archiver services.Archiver
	Rotator  services.Rotator
	Notifier services.Notifier
	Metrics  *metrics.Metrics
}

type backupService struct {
	logger   *zap.Logger
	cfg      *config.Config
	repo     infra.RunRepository
	policy   *policy.Evaluator
	archiver services.Archiver
	rotator  services.Rotator
	notifier services.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time

	// runMu: один запуск за раз, включая очистку.
	runMu sync.Mutex
}

func New(log *zap.Logger, cfg *config.Config, deps Deps) services.BackupService {
	return &backupService{
		logger:   log,
		cfg:      cfg,
		repo:     deps.Repo,
		policy:   deps.Policy,
		archiver: deps.Archiver,
		rotator:  deps.Rotator,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		now:      time.Now,
	}
}

// Run выполняет один цикл: оценка уровней, дамп и архив, ротация в хранилище,
// уведомление и очистка BACKUP_DIR. Очистка выполняется при любом исходе.
// Параллельные вызовы выполняются строго последовательно.
func (s *backupService) Run(ctx context.Context) (*models.RunRecord, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	run := &models.RunRecord{
		ID:        uuid.New().String(),
		Status:    models.RunStatusRunning,
		StartedAt: s.now(),
	}
	log := s.logger.With(zap.String("run_id", run.ID))
	s.saveRun(ctx, log, run)
	s.metrics.RunStarted()

	defer func() {
		s.cleanup(log)
		run.FinishedAt = s.now()
		s.saveRun(ctx, log, run)
		s.metrics.RunFinished(run.Status, run.FinishedAt.Sub(run.StartedAt))
		s.pruneHistory(ctx, log)
	}()

	outcome, err := s.execute(ctx, log, run)
	if err != nil {
		run.Status = models.RunStatusFailed
		run.Error = err.Error()
		log.Error("резервное копирование завершилось с ошибкой", zap.Error(err))
		s.notifier.NotifyFailure(ctx, err)
		return run, err
	}

	if outcome == nil {
		run.Status = models.RunStatusSkipped
		log.Info("резервное копирование пока не требуется")
		return run, nil
	}

	run.Status = models.RunStatusSuccess
	run.Upload = outcome.Upload
	log.Info("резервное копирование завершено",
		zap.String("tier", string(outcome.Tier)),
		zap.String("file_id", outcome.Upload.FileID),
	)
	s.notifier.NotifySuccess(ctx, *outcome)
	return run, nil
}

// execute возвращает nil, nil, если ни один уровень не требует обновления.
func (s *backupService) execute(ctx context.Context, log *zap.Logger, run *models.RunRecord) (*models.RunOutcome, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	versions, err := s.rotator.ListVersions(ctx)
	if err != nil {
		return nil, err
	}

	decision := s.policy.Evaluate(s.now(), versions)
	if !decision.Due {
		return nil, nil
	}
	run.Tier = decision.Tier
	run.Reason = string(decision.Reason)
	log.Info("требуется резервная копия",
		zap.String("tier", string(decision.Tier)),
		zap.String("file_name", decision.Tier.FileName()),
		zap.String("reason", string(decision.Reason)),
	)
	s.saveRun(ctx, log, run)

	artifact, err := s.archiver.Produce(ctx, decision.Tier)
	if err != nil {
		return nil, err
	}

	upload, err := s.rotator.Rotate(ctx, artifact)
	if err != nil {
		return nil, err
	}

	return &models.RunOutcome{
		Tier:       artifact.Tier,
		Passphrase: artifact.Passphrase,
		Upload:     upload,
	}, nil
}

// cleanup удаляет все содержимое BACKUP_DIR. Ошибки только логируются.
func (s *backupService) cleanup(log *zap.Logger) {
	log.Info("очистка директории резервных копий", zap.String("path", s.cfg.BackupDir))

	entries, err := os.ReadDir(s.cfg.BackupDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Error(ErrCleanupFailed.Error(), zap.Error(err))
		}
		return
	}

	for _, e := range entries {
		path := filepath.Join(s.cfg.BackupDir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Error(ErrCleanupFailed.Error(), zap.String("path", path), zap.Error(err))
		}
	}
}

func (s *backupService) saveRun(ctx context.Context, log *zap.Logger, run *models.RunRecord) {
	snapshot := *run
	if err := s.repo.SaveRun(context.WithoutCancel(ctx), &snapshot); err != nil {
		log.Warn(ErrRunSave.Error(), zap.Error(err))
	}
}

// pruneHistory удаляет завершенные запуски старше RUN_HISTORY_TTL. 0 - хранить все.
func (s *backupService) pruneHistory(ctx context.Context, log *zap.Logger) {
	ttl := s.cfg.RunHistoryTTL
	if ttl <= 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	runs, err := s.repo.ListRuns(ctx)
	if err != nil {
		log.Warn(ErrRunGet.Error(), zap.Error(err))
		return
	}

	now := s.now()
	for _, run := range runs {
		if !run.Finished() || now.Sub(run.FinishedAt) <= ttl {
			continue
		}
		if err := s.repo.DeleteRun(ctx, run.ID); err != nil {
			log.Warn(ErrRunDelete.Error(), zap.String("deleted_run_id", run.ID), zap.Error(err))
			continue
		}
		log.Info("запуск удален из истории", zap.String("deleted_run_id", run.ID))
	}
}

func (s *backupService) GetRun(ctx context.Context, runID string) (*models.RunRecord, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	run, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunGet, err)
	}
	return run, nil
}

// ListRuns возвращает историю запусков, новые первыми.
func (s *backupService) ListRuns(ctx context.Context) ([]*models.RunRecord, error) {
	runs, err := s.repo.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRunGet, err)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}
