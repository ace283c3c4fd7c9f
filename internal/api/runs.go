package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/sunr3d/backuper/internal/interfaces/services"
	"github.com/sunr3d/backuper/models"
)

// Trigger - планировщик, которому можно передать внеплановый запуск.
type Trigger interface {
	Trigger() bool
	NextRun() time.Time
}

type RunsAPI struct {
	service services.BackupService
	trigger Trigger
	logger  *zap.Logger
}

func New(service services.BackupService, trigger Trigger, logger *zap.Logger) *RunsAPI {
	return &RunsAPI{
		service: service,
		trigger: trigger,
		logger:  logger,
	}
}

// GET /runs
func (h *RunsAPI) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.service.ListRuns(r.Context())
	if err != nil {
		h.logger.Error("ошибка получения списка запусков", zap.Error(err))
		http.Error(w, "Внутренняя ошибка сервера при получении списка запусков", http.StatusInternalServerError)
		return
	}

	resp := listRunsResp{Runs: make([]runResp, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, toRunResp(run))
	}
	if next := h.trigger.NextRun(); !next.IsZero() {
		resp.NextRun = next.Format(time.RFC3339)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GET /runs/status?run_id={run_id}
func (h *RunsAPI) GetRunStatus(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		http.Error(w, "Некорректный запрос: отсутствует run_id", http.StatusBadRequest)
		return
	}

	run, err := h.service.GetRun(r.Context(), runID)
	if errors.Is(err, models.ErrRunNotFound) {
		http.Error(w, "Запуск не найден", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("ошибка при попытке получения статуса запуска", zap.Error(err))
		http.Error(w, "Внутренняя ошибка сервера при получении статуса запуска", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, toRunResp(run))
}

// POST /runs
func (h *RunsAPI) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if !h.trigger.Trigger() {
		h.writeJSON(w, http.StatusServiceUnavailable, triggerRunResp{
			Accepted: false,
			Message:  "Планировщик не запущен",
		})
		return
	}

	h.logger.Info("запрошен внеплановый запуск")
	h.writeJSON(w, http.StatusAccepted, triggerRunResp{
		Accepted: true,
		Message:  "Запуск запрошен; если резервное копирование уже идет, запрос будет пропущен",
	})
}

// GET /healthz
func (h *RunsAPI) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *RunsAPI) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("ошибка кодирования JSON ответа", zap.Error(err))
	}
}

func toRunResp(run *models.RunRecord) runResp {
	resp := runResp{
		ID:        run.ID,
		Status:    string(run.Status),
		Tier:      string(run.Tier),
		FileName:  run.Tier.FileName(),
		Reason:    run.Reason,
		StartedAt: run.StartedAt.Format(time.RFC3339),
		Error:     run.Error,
	}
	if run.Finished() && !run.FinishedAt.IsZero() {
		resp.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	if run.Upload != nil {
		resp.Upload = &uploadResp{
			FileID:        run.Upload.FileID,
			FileName:      run.Upload.FileName,
			ContentLength: run.Upload.ContentLength,
			ContentSHA1:   run.Upload.ContentSHA1,
			UploadedAt:    time.UnixMilli(run.Upload.UploadTimestamp).UTC().Format(time.RFC3339),
		}
	}
	return resp
}
