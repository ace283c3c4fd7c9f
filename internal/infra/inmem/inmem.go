package inmem

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sunr3d/backuper/internal/interfaces/infra"
	"github.com/sunr3d/backuper/models"
)

var _ infra.RunRepository = (*inmemDB)(nil)

type inmemDB struct {
	logger *zap.Logger
	db     map[string]*models.RunRecord
	mu     sync.RWMutex
}

func New(log *zap.Logger) infra.RunRepository {
	return &inmemDB{
		logger: log,
		db:     make(map[string]*models.RunRecord),
	}
}

func (db *inmemDB) SaveRun(ctx context.Context, run *models.RunRecord) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if run == nil {
		return ErrRunNil
	}

	if run.ID == "" {
		return ErrRunIDEmpty
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.db[run.ID] = run
	db.logger.Debug("запуск сохранен", zap.String("run_id", run.ID), zap.String("status", string(run.Status)))

	return nil
}

func (db *inmemDB) GetRun(ctx context.Context, id string) (*models.RunRecord, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if id == "" {
		return nil, ErrRunIDEmpty
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	run, exists := db.db[id]
	if !exists {
		return nil, ErrRunNotFound
	}

	return run, nil
}

func (db *inmemDB) ListRuns(ctx context.Context) ([]*models.RunRecord, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	runs := make([]*models.RunRecord, 0, len(db.db))
	for _, run := range db.db {
		runs = append(runs, run)
	}

	return runs, nil
}

func (db *inmemDB) DeleteRun(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if id == "" {
		return ErrRunIDEmpty
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.db[id]; !exists {
		return ErrRunNotFound
	}

	delete(db.db, id)
	db.logger.Info("запуск удален", zap.String("run_id", id))

	return nil
}
