package archiver

import (
	"fmt"

	"github.com/sunr3d/backuper/models"
)

var (
	ErrContextDone = fmt.Errorf("%w: отмена контекста", models.ErrExternalTool)

	ErrInvalidTier = fmt.Errorf("%w: неизвестный уровень ротации", models.ErrConfig)
	ErrInvalidPath = fmt.Errorf("%w: некорректный путь", models.ErrConfig)
	ErrPassphrase  = fmt.Errorf("%w: не удалось сгенерировать парольную фразу", models.ErrExternalTool)

	ErrDumpFailed     = fmt.Errorf("%w: не удалось создать дамп базы данных", models.ErrExternalTool)
	ErrDumpMissing    = fmt.Errorf("%w: файл дампа не найден", models.ErrExternalTool)
	ErrArchiveFailed  = fmt.Errorf("%w: не удалось упаковать архив", models.ErrExternalTool)
	ErrArchiveMissing = fmt.Errorf("%w: файл архива не найден", models.ErrExternalTool)

	ErrMkdirFailed = fmt.Errorf("%w: не удалось создать директорию", models.ErrExternalTool)
)
