package models

import "errors"

var (
	ErrConfig       = errors.New("ошибка конфигурации")
	ErrExternalTool = errors.New("ошибка внешней утилиты")
	ErrRemoteStore  = errors.New("ошибка удаленного хранилища")
	ErrMail         = errors.New("ошибка отправки почты")

	ErrRunNotFound = errors.New("запуск не найден")
)
