package config

import "time"

type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPHost string `envconfig:"HTTP_HOST" default:"localhost"`
	HTTPPort string `envconfig:"HTTP_PORT" default:""`

	BackupDir string `envconfig:"BACKUP_DIR" required:"true"`
	DrupalDir string `envconfig:"DRUPAL_DIR" required:"true"`
	PeriodMs  int64  `envconfig:"PERIOD" default:"3600000"`

	DumpCommand   string `envconfig:"DUMP_COMMAND" default:"drush sql-dump > dump.sql"`
	DumpFile      string `envconfig:"DUMP_FILE" default:"dump.sql"`
	SevenZipBin   string `envconfig:"SEVEN_ZIP_BIN" default:"7z"`
	StaleTieBreak string `envconfig:"STALE_TIE_BREAK" default:"priority"`

	B2AccountID string        `envconfig:"B2_ACCOUNT_ID" required:"true"`
	B2AppKey    string        `envconfig:"B2_APP_KEY" required:"true"`
	B2Bucket    string        `envconfig:"B2_BUCKET" default:"lugnasad"`
	B2APIURL    string        `envconfig:"B2_API_URL" default:"https://api.backblazeb2.com"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`

	SMTPHost        string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort        int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser        string `envconfig:"SMTP_USER"`
	SMTPPassword    string `envconfig:"SMTP_PASSWORD"`
	SMTPImplicitTLS bool   `envconfig:"SMTP_IMPLICIT_TLS" default:"false"`
	MailFrom        string `envconfig:"MAIL_FROM" required:"true"`
	MailTo          string `envconfig:"MAIL_TO" required:"true"`

	RunHistoryTTL time.Duration `envconfig:"RUN_HISTORY_TTL" default:"720h"`
}

func (c *Config) Period() time.Duration {
	return time.Duration(c.PeriodMs) * time.Millisecond
}
