package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/rules"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/service"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/utils"
)

type RuleHandler struct {
	repo      core.RuleRepository
	detection *service.DetectionService
}

func NewRuleHandler(repo core.RuleRepository, detection *service.DetectionService) *RuleHandler {
	return &RuleHandler{repo: repo, detection: detection}
}

// ListRules returns the rule set currently compiled into the engine.
func (h *RuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, h.detection.ActiveRules(), http.StatusOK)
}

// AddRule validates a new definition against the predicate grammar before it
// is stored, so a bad condition can never poison a later reload.
func (h *RuleHandler) AddRule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var def core.RuleDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		utils.WriteError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// Compile the candidate in isolation to validate id and condition.
	if _, err := rules.Load([]core.RuleDefinition{def}); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.Add(r.Context(), def); err != nil {
		utils.WriteError(w, err.Error(), http.StatusConflict)
		return
	}

	utils.WriteMessage(w, "Rule added; reload to activate", http.StatusCreated)
}

func (h *RuleHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		utils.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ruleID := r.URL.Query().Get("id")
	if ruleID == "" {
		utils.WriteError(w, "Missing rule id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), ruleID); err != nil {
		utils.WriteError(w, err.Error(), http.StatusNotFound)
		return
	}

	utils.WriteMessage(w, "Rule deleted; reload to deactivate", http.StatusOK)
}

// ReloadRules recompiles the stored rule set and swaps it into the engine.
// A definition set that fails validation leaves the active set untouched.
func (h *RuleHandler) ReloadRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	defs, err := h.repo.GetAll(r.Context())
	if err != nil {
		utils.WriteError(w, "Failed to fetch rules", http.StatusInternalServerError)
		return
	}

	evaluator, err := rules.Load(defs)
	if err != nil {
		var defErr *core.RuleDefinitionError
		if errors.As(err, &defErr) {
			utils.WriteError(w, defErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		utils.WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.detection.Reload(evaluator); err != nil {
		utils.WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteSuccess(w, map[string]int{"rules_active": evaluator.Len()}, http.StatusOK)
}
