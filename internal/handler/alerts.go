package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/service"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/utils"
)

type AlertHandler struct {
	alerts    core.AlertRepository
	detection *service.DetectionService
}

func NewAlertHandler(alerts core.AlertRepository, detection *service.DetectionService) *AlertHandler {
	return &AlertHandler{alerts: alerts, detection: detection}
}

// ListAlerts serves the persisted alert log, newest first, paginated.
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	filter := core.AlertFilter{
		Severity: r.URL.Query().Get("severity"),
		Page:     page,
		Limit:    limit,
	}

	result, err := h.alerts.GetAlerts(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, "Failed to fetch alerts", http.StatusInternalServerError)
		return
	}

	utils.WriteSuccess(w, result, http.StatusOK)
}

// Evaluate runs one ad-hoc feature window through the decision core. The
// response is the full DecisionResult; intrusive windows are recorded exactly
// like replayed traffic.
func (h *AlertHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var window core.FeatureWindow
	if err := json.NewDecoder(r.Body).Decode(&window); err != nil {
		utils.WriteError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if len(window) == 0 {
		utils.WriteError(w, "Empty feature window", http.StatusBadRequest)
		return
	}

	result, err := h.detection.Process(r.Context(), window)
	if err != nil {
		var missing *core.FeatureMissingError
		var storage *core.StorageError
		switch {
		case errors.As(err, &missing):
			utils.WriteError(w, missing.Error(), http.StatusUnprocessableEntity)
			return
		case errors.As(err, &storage):
			// Decision is valid; only the archive write failed.
			utils.WriteSuccess(w, result, http.StatusOK)
			return
		default:
			utils.WriteError(w, "Scorer unavailable for this window", http.StatusBadGateway)
			return
		}
	}

	utils.WriteSuccess(w, result, http.StatusOK)
}
