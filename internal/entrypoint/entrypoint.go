package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sunr3d/backuper/internal/api"
	"github.com/sunr3d/backuper/internal/config"
	"github.com/sunr3d/backuper/internal/infra/b2"
	"github.com/sunr3d/backuper/internal/infra/inmem"
	"github.com/sunr3d/backuper/internal/infra/mail"
	"github.com/sunr3d/backuper/internal/infra/shell"
	"github.com/sunr3d/backuper/internal/metrics"
	"github.com/sunr3d/backuper/internal/middleware"
	"github.com/sunr3d/backuper/internal/scheduler"
	"github.com/sunr3d/backuper/internal/server"
	"github.com/sunr3d/backuper/internal/services/archiver"
	"github.com/sunr3d/backuper/internal/services/backup_service"
	"github.com/sunr3d/backuper/internal/services/notifier"
	"github.com/sunr3d/backuper/internal/services/policy"
	"github.com/sunr3d/backuper/internal/services/rotation"
)

// Run собирает зависимости и работает до отмены ctx.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if err := os.MkdirAll(cfg.BackupDir, 0o700); err != nil {
		return fmt.Errorf("не удалось создать директорию для резервных копий: %w", err)
	} else {
		log.Info("директория для резервных копий создана", zap.String("path", cfg.BackupDir))
	}

	tieBreak, err := policy.ParseTieBreak(cfg.StaleTieBreak)
	if err != nil {
		return err
	}

	m := metrics.New()

	store := b2.New(log.Named("b2"), cfg.B2APIURL, cfg.B2AccountID, cfg.B2AppKey, cfg.HTTPTimeout)
	mailer := mail.New(log.Named("mail"), mail.Config{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		User:        cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		ImplicitTLS: cfg.SMTPImplicitTLS,
	})
	runner := shell.New(log.Named("shell"))

	notify := notifier.New(log.Named("notifier"), mailer, cfg.MailFrom, cfg.MailTo, m)
	svc := backup_service.New(log, cfg, backup_service.Deps{
		Repo:     inmem.New(log.Named("inmem")),
		Policy:   policy.New(tieBreak),
		Archiver: archiver.New(log.Named("archiver"), cfg, runner),
		Rotator:  rotation.New(log.Named("rotation"), store, cfg.B2Bucket, m),
		Notifier: notify,
		Metrics:  m,
	})

	sched := scheduler.New(log.Named("scheduler"), svc, cfg.Period())
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer func() {
		sched.Stop()
		notify.Wait()
		log.Info("агент резервного копирования остановлен")
	}()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.HTTPPort != "" {
		controller := api.New(svc, sched, log)

		mux := http.NewServeMux()
		mux.HandleFunc("GET /runs", controller.ListRuns)
		mux.HandleFunc("GET /runs/status", controller.GetRunStatus)
		mux.HandleFunc("POST /runs", controller.TriggerRun)
		mux.HandleFunc("GET /healthz", controller.Health)
		mux.Handle("GET /metrics", m.Handler())

		router := http.Handler(mux)
		router = middleware.ReqLogger(log)(router)
		router = middleware.Recovery(log)(router)

		srv := server.New(cfg.HTTPHost, cfg.HTTPPort, router, log)
		g.Go(func() error { return srv.Start(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	return g.Wait()
}
