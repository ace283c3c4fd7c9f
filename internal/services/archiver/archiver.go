package archiver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-diceware/diceware"
	"go.uber.org/zap"

	"github.com/sunr3d/backuper/internal/config"
	"github.com/sunr3d/backuper/internal/interfaces/infra"
	"github.com/sunr3d/backuper/internal/interfaces/services"
	"github.com/sunr3d/backuper/models"
)

const (
	passphraseWords     = 5
	passphraseSeparator = "_"
)

var _ services.Archiver = (*archiver)(nil)

type archiver struct {
	logger     *zap.Logger
	cfg        *config.Config
	runner     infra.CommandRunner
	passphrase func() (string, error)
}

func New(log *zap.Logger, cfg *config.Config, runner infra.CommandRunner) services.Archiver {
	return &archiver{
		logger:     log,
		cfg:        cfg,
		runner:     runner,
		passphrase: generatePassphrase,
	}
}

// Produce снимает дамп базы и упаковывает исходную директорию в зашифрованный 7z архив
// BACKUP_DIR/<файл уровня>.
func (a *archiver) Produce(ctx context.Context, tier models.Tier) (*models.Artifact, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if !tier.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}

	passphrase, err := a.passphrase()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPassphrase, err)
	}

	backupDir, srcDir, err := a.paths()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(backupDir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}

	dumpPath := a.dumpPath(srcDir)
	defer a.removeDump(dumpPath)

	a.logger.Info("создание дампа базы данных", zap.String("dir", srcDir))
	if err := a.dump(ctx, srcDir, dumpPath); err != nil {
		return nil, err
	}

	outPath := filepath.Join(backupDir, tier.FileName())
	a.logger.Info("упаковка архива", zap.String("tier", string(tier)), zap.String("path", outPath))
	err = a.runner.Run(ctx, infra.Command{
		Dir:  srcDir,
		Name: a.cfg.SevenZipBin,
		Args: sevenZipArgs(passphrase, outPath, srcDir),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}
	if _, err := os.Stat(outPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveMissing, err)
	}

	a.logger.Info("архив создан", zap.String("tier", string(tier)), zap.String("path", outPath))
	return &models.Artifact{
		Tier:       tier,
		Path:       outPath,
		Passphrase: passphrase,
	}, nil
}

// paths возвращает абсолютные BACKUP_DIR и DRUPAL_DIR: команды запускаются в DRUPAL_DIR,
// относительные пути в аргументах 7z разрешились бы от нее.
func (a *archiver) paths() (string, string, error) {
	backupDir, err := filepath.Abs(a.cfg.BackupDir)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrInvalidPath, a.cfg.BackupDir, err)
	}
	srcDir, err := filepath.Abs(a.cfg.DrupalDir)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrInvalidPath, a.cfg.DrupalDir, err)
	}
	return backupDir, srcDir, nil
}

func (a *archiver) dump(ctx context.Context, srcDir, dumpPath string) error {
	err := a.runner.Run(ctx, infra.Command{
		Dir:   srcDir,
		Name:  a.cfg.DumpCommand,
		Shell: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDumpFailed, err)
	}

	if _, err := os.Stat(dumpPath); err != nil {
		return fmt.Errorf("%w: %v", ErrDumpMissing, err)
	}
	return nil
}

// removeDump удаляет незашифрованный дамп, в том числе частичный после ошибки drush.
func (a *archiver) removeDump(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		a.logger.Warn("не удалось удалить файл дампа", zap.String("path", path), zap.Error(err))
	}
}

func (a *archiver) dumpPath(srcDir string) string {
	if filepath.IsAbs(a.cfg.DumpFile) {
		return a.cfg.DumpFile
	}
	return filepath.Join(srcDir, a.cfg.DumpFile)
}

// sevenZipArgs: LZMA2, максимальное сжатие, AES-256 с шифрованием заголовков (-mhe).
func sevenZipArgs(passphrase, outPath, srcDir string) []string {
	return []string{
		"a",
		"-t7z",
		"-m0=lzma2",
		"-mx=9",
		"-mfb=64",
		"-md=32m",
		"-ms=on",
		"-mmt=off",
		"-mhe=on",
		"-p" + passphrase,
		outPath,
		srcDir,
	}
}

func generatePassphrase() (string, error) {
	words, err := diceware.Generate(passphraseWords)
	if err != nil {
		return "", err
	}
	return strings.Join(words, passphraseSeparator), nil
}
