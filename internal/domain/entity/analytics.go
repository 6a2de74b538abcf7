package entity

// DailyMetric is one day of dashboard activity.
type DailyMetric struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Visits   int    `json:"visits"`
	Policies int    `json:"policies"`
	Claims   int    `json:"claims"`
	Revenue  int    `json:"revenue"`
}

// SummaryStats aggregates a series of daily metrics.
type SummaryStats struct {
	TotalVisits      int     `json:"totalVisits"`
	TotalPolicies    int     `json:"totalPolicies"`
	TotalClaims      int     `json:"totalClaims"`
	TotalRevenue     int     `json:"totalRevenue"`
	AvgDailyVisits   int     `json:"avgDailyVisits"`
	AvgDailyPolicies float64 `json:"avgDailyPolicies"`
	AvgDailyClaims   float64 `json:"avgDailyClaims"`
	AvgDailyRevenue  int     `json:"avgDailyRevenue"`
}
