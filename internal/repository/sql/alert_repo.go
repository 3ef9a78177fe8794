// Package sql provides the relational alert archive. The auto-increment
// primary key gives persisted alerts a monotonic identifier, so the stored
// sequence preserves record order without any extra coordination.
package sql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
)

const createAlertsTable = `
CREATE TABLE IF NOT EXISTS alerts (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	timestamp DATETIME(3) NOT NULL,
	ml_score DOUBLE NOT NULL,
	rule_score DOUBLE NOT NULL,
	final_score DOUBLE NOT NULL,
	severity VARCHAR(16) NOT NULL,
	matched_rules TEXT NOT NULL
)`

type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository prepares the alerts table if it does not exist yet.
func NewAlertRepository(db *sql.DB) (*AlertRepository, error) {
	if _, err := db.Exec(createAlertsTable); err != nil {
		return nil, &core.StorageError{Backend: "mysql", Err: err}
	}
	return &AlertRepository{db: db}, nil
}

func (r *AlertRepository) Record(ctx context.Context, alert core.Alert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts (timestamp, ml_score, rule_score, final_score, severity, matched_rules)
		VALUES (?, ?, ?, ?, ?, ?)`,
		alert.Timestamp,
		alert.MLScore,
		alert.RuleScore,
		alert.FinalScore,
		string(alert.Severity),
		strings.Join(alert.MatchedRules, ","),
	)
	if err != nil {
		return &core.StorageError{Backend: "mysql", Err: err}
	}
	return nil
}

func (r *AlertRepository) GetAlerts(ctx context.Context, filter core.AlertFilter) (*core.PaginatedAlerts, error) {
	where := ""
	args := []interface{}{}
	if filter.Severity != "" {
		where = " WHERE severity = ?"
		args = append(args, filter.Severity)
	}

	var totalItems int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts"+where, args...).Scan(&totalItems); err != nil {
		return nil, &core.StorageError{Backend: "mysql", Err: err}
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, ml_score, rule_score, final_score, severity, matched_rules
		FROM alerts`+where+`
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, &core.StorageError{Backend: "mysql", Err: err}
	}
	defer rows.Close()

	alerts := []core.Alert{}
	for rows.Next() {
		var (
			a        core.Alert
			id       int64
			severity string
			matched  string
		)
		if err := rows.Scan(&id, &a.Timestamp, &a.MLScore, &a.RuleScore, &a.FinalScore, &severity, &matched); err != nil {
			return nil, &core.StorageError{Backend: "mysql", Err: err}
		}
		a.ID = id
		a.Severity = core.Severity(severity)
		if matched != "" {
			a.MatchedRules = strings.Split(matched, ",")
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StorageError{Backend: "mysql", Err: err}
	}

	result := &core.PaginatedAlerts{Data: alerts}
	result.Pagination.CurrentPage = page
	result.Pagination.TotalPages = (totalItems + limit - 1) / limit
	result.Pagination.TotalItems = totalItems
	result.Pagination.PerPage = limit
	return result, nil
}
