package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sunr3d/backuper/internal/interfaces/services"
)

var ErrInvalidPeriod = errors.New("период запуска должен быть не меньше секунды")

// Scheduler запускает резервное копирование сразу при старте и далее с фиксированным периодом.
// Тик, пришедший во время выполнения запуска, пропускается.
type Scheduler struct {
	service services.BackupService
	logger  *zap.Logger
	period  time.Duration
	cron    *cron.Cron

	mu      sync.Mutex
	job     cron.Job
	wg      sync.WaitGroup
	running bool
}

func New(log *zap.Logger, service services.BackupService, period time.Duration) *Scheduler {
	cl := cronLogger{log: log.Sugar()}
	return &Scheduler{
		service: service,
		logger:  log,
		period:  period,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.period < time.Second {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, s.period)
	}
	if s.running {
		return nil
	}

	// Запуск не прерывается остановкой процесса: Stop дожидается его завершения.
	runCtx := context.WithoutCancel(ctx)
	s.job = cron.FuncJob(func() {
		if _, err := s.service.Run(runCtx); err != nil {
			s.logger.Warn("запуск резервного копирования завершился с ошибкой", zap.Error(err))
		}
	})
	id := s.cron.Schedule(cron.Every(s.period), s.job)
	// Schedule оборачивает job цепочкой; для немедленного запуска берем ту же обертку,
	// чтобы SkipIfStillRunning видел и его.
	s.job = s.cron.Entry(id).WrappedJob

	s.cron.Start()
	s.running = true
	s.logger.Info("планировщик запущен", zap.Duration("period", s.period))

	s.trigger()
	return nil
}

// Trigger запускает внеплановое резервное копирование. Если запуск уже идет, вызов пропускается.
func (s *Scheduler) Trigger() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	s.trigger()
	return true
}

func (s *Scheduler) trigger() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()
}

// Stop останавливает планировщик и ждет завершения текущего запуска.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("планировщик остановлен")
}

func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
