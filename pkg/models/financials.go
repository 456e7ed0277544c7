package models

// YearlySeries maps a fiscal year to a monetary value (revenue, net income)
// or an average price.
type YearlySeries map[int]float64

// QuarterlySeries maps a "YYYY-Qn" key to a value.
type QuarterlySeries map[string]float64

// IncomeHistory holds the income statement lines the screener needs.
type IncomeHistory struct {
	Ticker           string          `json:"ticker"`
	AnnualRevenue    YearlySeries    `json:"annual_revenue"`
	AnnualNetIncome  YearlySeries    `json:"annual_net_income"`
	QuarterlyRevenue QuarterlySeries `json:"quarterly_revenue"`
}

// FinancialSnapshot summarizes the latest fiscal year for the news panel.
// Amounts are in crores; growth figures are percentages. Nil means unknown.
type FinancialSnapshot struct {
	RevenueCr     *float64 `json:"revenue_cr,omitempty"`
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	NetProfitCr   *float64 `json:"net_profit_cr,omitempty"`
	ProfitGrowth  *float64 `json:"profit_growth,omitempty"`
	PE            *float64 `json:"pe,omitempty"`
	MarketCapCr   *float64 `json:"mcap_cr,omitempty"`
}
