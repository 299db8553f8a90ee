package models

import "time"

// MarketSnapshot is one row of the market_data table: monthly aggregates
// per city, refreshed from the properties table.
type MarketSnapshot struct {
	ID              int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Month           string    `json:"month" gorm:"column:month"`
	City            string    `json:"city" gorm:"column:city"`
	State           string    `json:"state" gorm:"column:state"`
	Listings        int       `json:"listings" gorm:"column:listings"`
	AveragePrice    float64   `json:"average_price" gorm:"column:average_price"`
	AvgDaysOnMarket float64   `json:"avg_days_on_market" gorm:"column:avg_days_on_market"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
}

func (MarketSnapshot) TableName() string {
	return "market_data"
}

// EconomicIndicator is one row of the economic_indicators table. The
// reports only join against it when populated; ingestion is external.
type EconomicIndicator struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"column:name"`
	Period    string    `json:"period" gorm:"column:period"`
	Value     float64   `json:"value" gorm:"column:value"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (EconomicIndicator) TableName() string {
	return "economic_indicators"
}
