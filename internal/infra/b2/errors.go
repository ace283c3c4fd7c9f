package b2

import (
	"errors"
	"fmt"

	"github.com/Backblaze/blazer/base"
)

var (
	ErrNotAuthorized = errors.New("клиент B2 не авторизован")
	ErrRequestFailed = errors.New("ошибка запроса к B2")
	ErrUnknownBucket = errors.New("бакет не получен из списка бакетов")
	ErrInvalidTarget = errors.New("некорректный адрес загрузки")
)

// APIError - ошибка, которую вернул B2 native API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("b2: %d %s: %s", e.Status, e.Code, e.Message)
}

// wrapErr оборачивает ошибку blazer в ErrRequestFailed, сохраняя статус и код ответа.
func wrapErr(op string, err error) error {
	status, code, msg := base.MsgCode(err)
	if status == 0 {
		return fmt.Errorf("%w: %s: %v", ErrRequestFailed, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrRequestFailed, op, &APIError{Status: status, Code: code, Message: msg})
}
