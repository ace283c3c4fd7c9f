package infra

import "context"

// Command описывает запуск внешней утилиты. Если Shell = true, Name передается в sh -c.
type Command struct {
	Dir   string
	Name  string
	Args  []string
	Shell bool
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=CommandRunner --output=../../mocks
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) error
}
