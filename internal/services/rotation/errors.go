package rotation

import (
	"fmt"

	"github.com/sunr3d/backuper/models"
)

var (
	ErrContextDone = fmt.Errorf("%w: отмена контекста", models.ErrRemoteStore)

	ErrBucketNotFound = fmt.Errorf("%w: бакет не найден", models.ErrConfig)

	ErrAuthorize    = fmt.Errorf("%w: не удалось авторизоваться", models.ErrRemoteStore)
	ErrListBuckets  = fmt.Errorf("%w: не удалось получить список бакетов", models.ErrRemoteStore)
	ErrListVersions = fmt.Errorf("%w: не удалось получить список версий файлов", models.ErrRemoteStore)
	ErrDeleteFailed = fmt.Errorf("%w: не удалось удалить старую версию файла", models.ErrRemoteStore)
	ErrUploadURL    = fmt.Errorf("%w: не удалось получить адрес загрузки", models.ErrRemoteStore)
	ErrUploadFailed = fmt.Errorf("%w: не удалось загрузить файл", models.ErrRemoteStore)

	ErrArtifactRead = fmt.Errorf("%w: не удалось прочитать файл архива", models.ErrExternalTool)
)
