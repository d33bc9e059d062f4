package entity

// CountBucket is one slice of a grouped count.
type CountBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// DailyStockFlow sums inbound and outbound quantities of one day.
type DailyStockFlow struct {
	Date string `json:"date"`
	In   int64  `json:"in"`
	Out  int64  `json:"out"`
}

// ProductStock is a compact product row for stock charts.
type ProductStock struct {
	ID          string `json:"id"`
	ModelName   string `json:"modelName"`
	PackageType string `json:"packageType"`
	Stock       int64  `json:"stock"`
}

// DashboardOverview is the chart-ready payload of the dashboard page.
type DashboardOverview struct {
	CustomersByProgress   []CountBucket    `json:"customersByProgress"`
	CustomersByImportance []CountBucket    `json:"customersByImportance"`
	CustomersByNature     []CountBucket    `json:"customersByNature"`
	TopStockProducts      []ProductStock   `json:"topStockProducts"`
	LowStockProducts      []ProductStock   `json:"lowStockProducts"`
	StockTrend            []DailyStockFlow `json:"stockTrend"`
}

// DashboardStats holds the headline counters of the dashboard.
type DashboardStats struct {
	CustomerCount         int64  `json:"customerCount"`
	PublicPoolCount       int64  `json:"publicPoolCount"`
	ProductCount          int64  `json:"productCount"`
	TotalStock            int64  `json:"totalStock"`
	AgentCount            int64  `json:"agentCount"`
	PendingUserCount      *int64 `json:"pendingUserCount,omitempty"`
	PendingAgentCount     *int64 `json:"pendingAgentCount,omitempty"`
	TodayInventoryOpCount int64  `json:"todayInventoryOpCount"`
}
