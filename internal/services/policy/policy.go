package policy

import (
	"fmt"
	"time"

	"github.com/sunr3d/backuper/models"
)

type TieBreak string

const (
	// TieBreakPriority выбирает устаревший уровень в порядке daily, weekly, monthly
	// по самой свежей версии каждого уровня.
	TieBreakPriority TieBreak = "priority"
	// TieBreakScanOrder возвращает первый устаревший файл в порядке листинга хранилища.
	TieBreakScanOrder TieBreak = "scan"
)

func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case TieBreakPriority, TieBreakScanOrder:
		return TieBreak(s), nil
	case "":
		return TieBreakPriority, nil
	}
	return "", fmt.Errorf("%w: неизвестный режим выбора уровня %q", models.ErrConfig, s)
}

type Evaluator struct {
	tieBreak TieBreak
}

func New(tieBreak TieBreak) *Evaluator {
	if tieBreak == "" {
		tieBreak = TieBreakPriority
	}
	return &Evaluator{tieBreak: tieBreak}
}

// Evaluate определяет единственный уровень, который нужно обновить в этом запуске.
// Устаревший уровень важнее отсутствующего; отсутствующие проверяются в порядке daily, weekly, monthly.
func (e *Evaluator) Evaluate(now time.Time, versions []models.FileVersion) models.Decision {
	present := make(map[models.Tier]bool, 3)
	newest := make(map[models.Tier]time.Time, 3)
	var firstStale models.Tier

	for _, v := range versions {
		tier, ok := models.TierByFileName(v.FileName)
		if !ok {
			continue
		}
		present[tier] = true
		if v.UploadTimestamp.After(newest[tier]) {
			newest[tier] = v.UploadTimestamp
		}
		if firstStale == "" && isStale(now, tier, v.UploadTimestamp) {
			firstStale = tier
		}
	}

	switch e.tieBreak {
	case TieBreakScanOrder:
		if firstStale != "" {
			return models.TierDue(firstStale, models.ReasonStale)
		}
	default:
		for _, tier := range models.Tiers() {
			if present[tier] && isStale(now, tier, newest[tier]) {
				return models.TierDue(tier, models.ReasonStale)
			}
		}
	}

	for _, tier := range models.Tiers() {
		if !present[tier] {
			return models.TierDue(tier, models.ReasonMissing)
		}
	}

	return models.NoneDue()
}

func isStale(now time.Time, tier models.Tier, uploadedAt time.Time) bool {
	return now.Sub(uploadedAt) > tier.MaxAge()
}
