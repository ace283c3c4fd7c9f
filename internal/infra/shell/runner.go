package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/sunr3d/backuper/internal/interfaces/infra"
)

const maxOutputTail = 2048

var (
	ErrCommandFailed = errors.New("команда завершилась с ошибкой")
	ErrEmptyCommand  = errors.New("пустая команда")
)

var _ infra.CommandRunner = (*runner)(nil)

type runner struct {
	logger *zap.Logger
	shell  string
}

func New(log *zap.Logger) infra.CommandRunner {
	return &runner{logger: log, shell: "/bin/sh"}
}

// Run запускает команду и ждет завершения. Ненулевой код выхода - ошибка
// с хвостом stderr/stdout. Аргументы (в том числе парольная фраза) не логируются.
func (r *runner) Run(ctx context.Context, c infra.Command) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCommand
	}

	var cmd *exec.Cmd
	if c.Shell {
		cmd = exec.CommandContext(ctx, r.shell, "-c", c.Name)
	} else {
		cmd = exec.CommandContext(ctx, c.Name, c.Args...)
	}
	cmd.Dir = c.Dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	r.logger.Debug("запуск команды", zap.String("name", c.Name), zap.String("dir", c.Dir))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrCommandFailed, c.Name, err, tail(out.String()))
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxOutputTail {
		s = "..." + s[len(s)-maxOutputTail:]
	}
	return s
}
