package handler

import (
	"math"

	"dealaudit/internal/audit"
)

// SummaryResponse is the admin dashboard trend feed over the last N reports.
type SummaryResponse struct {
	Window       int                 `json:"window"`
	AverageScore int                 `json:"average_score"`
	PassRate     int                 `json:"pass_rate"`
	TotalAlerts  int                 `json:"total_alerts"`
	Reports      []audit.AuditReport `json:"reports"`
}

func buildSummary(window int, reports []audit.AuditReport) SummaryResponse {
	summary := SummaryResponse{
		Window:  window,
		Reports: reports,
	}
	if len(reports) == 0 {
		summary.Reports = []audit.AuditReport{}
		return summary
	}

	scoreSum, passed := 0, 0
	for _, r := range reports {
		scoreSum += r.OverallScore
		summary.TotalAlerts += r.AlertsCount
		if r.Pass {
			passed++
		}
	}
	summary.AverageScore = int(math.Round(float64(scoreSum) / float64(len(reports))))
	summary.PassRate = int(math.Round(float64(passed) / float64(len(reports)) * 100))
	return summary
}
