package dto

import (
	"folio/internal/domain/report"
)

type EngagementSeriesResponse struct {
	Days       []string `json:"days"`
	Daily      []int    `json:"daily"`
	Cumulative []int    `json:"cumulative"`
}

type EngagementReportResponse struct {
	Users  []report.UserEngagement  `json:"users"`
	Series EngagementSeriesResponse `json:"series"`
}

func NewEngagementReportResponse(res report.Result) EngagementReportResponse {
	days := make([]string, 0, len(res.Series.Days))
	for _, d := range res.Series.Days {
		days = append(days, report.DayKey(d))
	}
	return EngagementReportResponse{
		Users: res.Users,
		Series: EngagementSeriesResponse{
			Days:       days,
			Daily:      res.Series.Daily,
			Cumulative: res.Series.Cumulative,
		},
	}
}
