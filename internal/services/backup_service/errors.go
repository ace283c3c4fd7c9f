package backup_service

import "errors"

var (
	ErrContextDone = errors.New("отмена контекста")

	ErrRunSave   = errors.New("не удалось сохранить запуск")
	ErrRunGet    = errors.New("не удалось получить запуск")
	ErrRunDelete = errors.New("не удалось удалить запуск из истории")

	ErrCleanupFailed = errors.New("не удалось очистить директорию резервных копий")
)
