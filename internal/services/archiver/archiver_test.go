package archiver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/backuper/internal/config"
	"github.com/sunr3d/backuper/internal/infra/shell"
	"github.com/sunr3d/backuper/internal/interfaces/infra"
	"github.com/sunr3d/backuper/internal/mocks"
	"github.com/sunr3d/backuper/models"
)

const testPassphrase = "alpha_bravo_charlie_delta_echo"

func setupTestArchiver(t *testing.T) (*archiver, *mocks.CommandRunner) {
	root := t.TempDir()
	cfg := &config.Config{
		BackupDir:   filepath.Join(root, "backup"),
		DrupalDir:   filepath.Join(root, "drupal"),
		DumpCommand: "drush sql-dump > dump.sql",
		DumpFile:    "dump.sql",
		SevenZipBin: "7z",
	}
	require.NoError(t, os.MkdirAll(cfg.DrupalDir, 0o755))

	runner := mocks.NewCommandRunner(t)
	a := New(zaptest.NewLogger(t), cfg, runner).(*archiver)
	a.passphrase = func() (string, error) { return testPassphrase, nil }

	return a, runner
}

func isDump(cmd infra.Command) bool    { return cmd.Shell }
func isArchive(cmd infra.Command) bool { return !cmd.Shell && cmd.Name == "7z" }

func writeFile(t *testing.T, path string) {
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))
}

func TestArchiver_Produce_Success(t *testing.T) {
	a, runner := setupTestArchiver(t)
	outPath := filepath.Join(a.cfg.BackupDir, "week.7z")

	runner.On("Run", mock.Anything, mock.MatchedBy(isDump)).
		Run(func(args mock.Arguments) {
			cmd := args.Get(1).(infra.Command)
			assert.Equal(t, a.cfg.DrupalDir, cmd.Dir)
			assert.Equal(t, "drush sql-dump > dump.sql", cmd.Name)
			writeFile(t, filepath.Join(a.cfg.DrupalDir, "dump.sql"))
		}).
		Return(nil).Once()
	runner.On("Run", mock.Anything, mock.MatchedBy(isArchive)).
		Run(func(args mock.Arguments) {
			cmd := args.Get(1).(infra.Command)
			assert.Contains(t, cmd.Args, "-p"+testPassphrase)
			assert.Contains(t, cmd.Args, "-mhe=on")
			assert.Contains(t, cmd.Args, "-mx=9")
			assert.Equal(t, []string{outPath, a.cfg.DrupalDir}, cmd.Args[len(cmd.Args)-2:])
			writeFile(t, outPath)
		}).
		Return(nil).Once()

	artifact, err := a.Produce(context.Background(), models.TierWeekly)

	require.NoError(t, err)
	assert.Equal(t, models.TierWeekly, artifact.Tier)
	assert.Equal(t, outPath, artifact.Path)
	assert.Equal(t, testPassphrase, artifact.Passphrase)

	entries, err := os.ReadDir(a.cfg.BackupDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = os.Stat(filepath.Join(a.cfg.DrupalDir, "dump.sql"))
	assert.True(t, os.IsNotExist(err))
}

func TestArchiver_Produce_DumpFailed(t *testing.T) {
	a, runner := setupTestArchiver(t)

	runner.On("Run", mock.Anything, mock.MatchedBy(isDump)).
		Run(func(args mock.Arguments) {
			writeFile(t, filepath.Join(a.cfg.DrupalDir, "dump.sql"))
		}).
		Return(errors.New("exit status 1")).Once()

	artifact, err := a.Produce(context.Background(), models.TierDaily)

	assert.Nil(t, artifact)
	assert.ErrorIs(t, err, ErrDumpFailed)
	assert.ErrorIs(t, err, models.ErrExternalTool)
	assert.Contains(t, err.Error(), "exit status 1")
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.MatchedBy(isArchive))

	entries, err := os.ReadDir(a.cfg.BackupDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = os.Stat(filepath.Join(a.cfg.DrupalDir, "dump.sql"))
	assert.True(t, os.IsNotExist(err))
}

func TestArchiver_Produce_DumpMissing(t *testing.T) {
	a, runner := setupTestArchiver(t)

	runner.On("Run", mock.Anything, mock.MatchedBy(isDump)).Return(nil).Once()

	_, err := a.Produce(context.Background(), models.TierDaily)

	assert.ErrorIs(t, err, ErrDumpMissing)
}

func TestArchiver_Produce_ArchiveFailed(t *testing.T) {
	a, runner := setupTestArchiver(t)

	runner.On("Run", mock.Anything, mock.MatchedBy(isDump)).
		Run(func(args mock.Arguments) {
			writeFile(t, filepath.Join(a.cfg.DrupalDir, "dump.sql"))
		}).
		Return(nil).Once()
	runner.On("Run", mock.Anything, mock.MatchedBy(isArchive)).Return(errors.New("exit status 2")).Once()

	_, err := a.Produce(context.Background(), models.TierMonthly)

	assert.ErrorIs(t, err, ErrArchiveFailed)
	assert.ErrorIs(t, err, models.ErrExternalTool)
}

func TestArchiver_Produce_InvalidTier(t *testing.T) {
	a, _ := setupTestArchiver(t)

	_, err := a.Produce(context.Background(), models.Tier("hourly"))

	assert.ErrorIs(t, err, ErrInvalidTier)
	assert.ErrorIs(t, err, models.ErrConfig)
}

func TestArchiver_Produce_ContextCanceled(t *testing.T) {
	a, _ := setupTestArchiver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Produce(ctx, models.TierDaily)

	assert.ErrorIs(t, err, ErrContextDone)
	assert.ErrorIs(t, err, models.ErrExternalTool)
}

func TestArchiver_Produce_PassphraseFailed(t *testing.T) {
	a, _ := setupTestArchiver(t)
	a.passphrase = func() (string, error) { return "", errors.New("no entropy") }

	_, err := a.Produce(context.Background(), models.TierDaily)

	assert.ErrorIs(t, err, ErrPassphrase)
	assert.ErrorIs(t, err, models.ErrExternalTool)
}

const fakeSevenZip = `#!/bin/sh
out="${11}"
src="${12}"
[ -d "$src" ] || { echo "src $src missing" >&2; exit 2; }
[ -f "$src/dump.sql" ] || { echo "dump missing" >&2; exit 3; }
cp "$src/dump.sql" "$out"
`

func TestArchiver_Produce_RelativePaths(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("нужен /bin/sh")
	}
	root := t.TempDir()
	t.Chdir(root)

	bin := filepath.Join(root, "bin", "7z")
	require.NoError(t, os.MkdirAll(filepath.Dir(bin), 0o755))
	require.NoError(t, os.WriteFile(bin, []byte(fakeSevenZip), 0o755))
	require.NoError(t, os.MkdirAll("drupal", 0o755))

	cfg := &config.Config{
		BackupDir:   "backup",
		DrupalDir:   "drupal",
		DumpCommand: "echo data > dump.sql",
		DumpFile:    "dump.sql",
		SevenZipBin: bin,
	}
	a := New(zaptest.NewLogger(t), cfg, shell.New(zaptest.NewLogger(t))).(*archiver)
	a.passphrase = func() (string, error) { return testPassphrase, nil }

	artifact, err := a.Produce(context.Background(), models.TierDaily)

	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(artifact.Path))

	data, err := os.ReadFile(filepath.Join(root, "backup", "day.7z"))
	require.NoError(t, err)
	assert.Equal(t, "data\n", string(data))

	_, err = os.Stat(filepath.Join(root, "drupal", "backup"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "drupal", "dump.sql"))
	assert.True(t, os.IsNotExist(err))
}

func TestGeneratePassphrase(t *testing.T) {
	first, err := generatePassphrase()
	require.NoError(t, err)
	second, err := generatePassphrase()
	require.NoError(t, err)

	assert.Len(t, strings.Split(first, passphraseSeparator), passphraseWords)
	assert.NotEqual(t, first, second)
}
