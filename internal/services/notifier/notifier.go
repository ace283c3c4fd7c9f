package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/sunr3d/backuper/internal/interfaces/infra"
	"github.com/sunr3d/backuper/internal/interfaces/services"
	"github.com/sunr3d/backuper/internal/metrics"
	"github.com/sunr3d/backuper/models"
)

const (
	subjectSuccess = "Backup status: success"
	subjectFailed  = "Backup status: failed"
)

var _ services.Notifier = (*notifier)(nil)

type notifier struct {
	mailer  infra.Mailer
	logger  *zap.Logger
	metrics *metrics.Metrics
	from    string
	to      string

	wg sync.WaitGroup
}

func New(log *zap.Logger, mailer infra.Mailer, from, to string, m *metrics.Metrics) services.Notifier {
	return &notifier{
		mailer:  mailer,
		logger:  log,
		metrics: m,
		from:    from,
		to:      to,
	}
}

// NotifySuccess отправляет парольную фразу и ответ хранилища.
// Письмо - единственная копия парольной фразы, поэтому ошибка доставки логируется как Error.
func (n *notifier) NotifySuccess(ctx context.Context, outcome models.RunOutcome) {
	n.send(ctx, infra.Message{
		From:    n.from,
		To:      n.to,
		Subject: subjectSuccess,
		Text:    successText(outcome),
	}, outcome.Tier)
}

func (n *notifier) NotifyFailure(ctx context.Context, runErr error) {
	text := "unknown error"
	if runErr != nil {
		text = runErr.Error()
	}
	n.send(ctx, infra.Message{
		From:    n.from,
		To:      n.to,
		Subject: subjectFailed,
		Text:    text,
	}, "")
}

// Wait блокируется до завершения всех отправляемых писем.
func (n *notifier) Wait() {
	n.wg.Wait()
}

func (n *notifier) send(ctx context.Context, msg infra.Message, tier models.Tier) {
	// Отправка не должна прерываться вместе с запуском резервного копирования.
	ctx = context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		if err := n.mailer.SendMail(ctx, msg); err != nil {
			n.metrics.ObserveNotification(false)
			n.logger.Error("не удалось отправить письмо",
				zap.String("subject", msg.Subject),
				zap.String("tier", string(tier)),
				zap.Error(fmt.Errorf("%w: %v", models.ErrMail, err)),
			)
			return
		}
		n.metrics.ObserveNotification(true)
		n.logger.Info("письмо отправлено", zap.String("subject", msg.Subject), zap.String("to", msg.To))
	}()
}

func successText(outcome models.RunOutcome) string {
	body, err := json.MarshalIndent(outcome.Upload, "", "    ")
	if err != nil {
		body = []byte(fmt.Sprintf("%+v", outcome.Upload))
	}
	return fmt.Sprintf("Passphrase: %s\n\n%s", outcome.Passphrase, body)
}
