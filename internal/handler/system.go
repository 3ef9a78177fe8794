package handler

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/scorer"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/utils"
)

type SystemHandler struct {
	mongoClient *mongo.Client
	scorer      *scorer.Client
}

func NewSystemHandler(client *mongo.Client, sc *scorer.Client) *SystemHandler {
	return &SystemHandler{mongoClient: client, scorer: sc}
}

func (h *SystemHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"system": "operational",
		"db":     "unknown",
		"scorer": "unknown",
		"time":   time.Now().Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.mongoClient.Ping(ctx, nil); err != nil {
		status["db"] = "disconnected"
	} else {
		status["db"] = "connected"
	}

	if err := h.scorer.Health(ctx); err != nil {
		status["scorer"] = "unreachable"
	} else {
		status["scorer"] = "healthy"
	}

	utils.WriteSuccess(w, status, http.StatusOK)
}
