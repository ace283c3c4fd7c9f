package inmem

import (
	"errors"
	"fmt"

	"github.com/sunr3d/backuper/models"
)

var (
	ErrRunNotFound = fmt.Errorf("%w", models.ErrRunNotFound)
	ErrRunNil      = errors.New("запуск не может быть nil")
	ErrRunIDEmpty  = errors.New("ID запуска не может быть пустым")
	ErrContextDone = errors.New("отмена контекста")
)
