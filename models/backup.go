package models

import (
	"time"
)

type Tier string

const (
	TierDaily   Tier = "daily"
	TierWeekly  Tier = "weekly"
	TierMonthly Tier = "monthly"
)

const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
)

// Tiers возвращает уровни в порядке приоритета: daily, weekly, monthly.
func Tiers() []Tier {
	return []Tier{TierDaily, TierWeekly, TierMonthly}
}

func (t Tier) FileName() string {
	switch t {
	case TierDaily:
		return "day.7z"
	case TierWeekly:
		return "week.7z"
	case TierMonthly:
		return "month.7z"
	}
	return ""
}

func (t Tier) MaxAge() time.Duration {
	switch t {
	case TierDaily:
		return Day
	case TierWeekly:
		return Week
	case TierMonthly:
		return Month
	}
	return 0
}

func (t Tier) Valid() bool {
	return t.FileName() != ""
}

// TierByFileName сопоставляет имя объекта в хранилище с уровнем ротации.
func TierByFileName(name string) (Tier, bool) {
	for _, t := range Tiers() {
		if t.FileName() == name {
			return t, true
		}
	}
	return "", false
}

type FileVersion struct {
	FileID          string    `json:"fileId"`
	FileName        string    `json:"fileName"`
	ContentLength   int64     `json:"contentLength"`
	UploadTimestamp time.Time `json:"uploadTimestamp"`
}

type DecisionReason string

const (
	ReasonNone    DecisionReason = ""
	ReasonStale   DecisionReason = "stale"
	ReasonMissing DecisionReason = "missing"
)

type Decision struct {
	Tier   Tier
	Due    bool
	Reason DecisionReason
}

func NoneDue() Decision {
	return Decision{}
}

func TierDue(tier Tier, reason DecisionReason) Decision {
	return Decision{Tier: tier, Due: true, Reason: reason}
}

type Artifact struct {
	Tier       Tier
	Path       string
	Passphrase string
}

// UploadResult повторяет ответ хранилища на загрузку файла.
type UploadResult struct {
	FileID          string `json:"fileId"`
	FileName        string `json:"fileName"`
	BucketID        string `json:"bucketId"`
	ContentLength   int64  `json:"contentLength"`
	ContentSHA1     string `json:"contentSha1"`
	Action          string `json:"action,omitempty"`
	UploadTimestamp int64  `json:"uploadTimestamp"`
}

type RunOutcome struct {
	Tier       Tier
	Passphrase string
	Upload     *UploadResult
}
