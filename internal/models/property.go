package models

import "time"

// Property represents a single residential listing as stored in the
// properties table. Optional numeric fields are pointers so that missing
// database values survive the round trip instead of turning into zeros.
type Property struct {
	PropertyID            int64     `json:"property_id" gorm:"column:property_id;primaryKey"`
	Address               string    `json:"address" gorm:"column:address"`
	City                  string    `json:"city" gorm:"column:city"`
	State                 string    `json:"state" gorm:"column:state"`
	ZipCode               string    `json:"zip_code" gorm:"column:zip_code"`
	Price                 float64   `json:"price" gorm:"column:price"`
	Bedrooms              *int      `json:"bedrooms" gorm:"column:bedrooms"`
	Bathrooms             *float64  `json:"bathrooms" gorm:"column:bathrooms"`
	SquareFeet            int       `json:"square_feet" gorm:"column:square_feet"`
	PropertyType          string    `json:"property_type" gorm:"column:property_type"`
	EstimatedRentalIncome float64   `json:"estimated_rental_income" gorm:"column:estimated_rental_income"`
	PropertyTaxes         float64   `json:"property_taxes" gorm:"column:property_taxes"`
	ListingDate           time.Time `json:"listing_date" gorm:"column:listing_date"`
	DaysOnMarket          int       `json:"days_on_market" gorm:"column:days_on_market"`
	CreatedAt             time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName keeps gorm on the same table the raw report queries read.
func (Property) TableName() string {
	return "properties"
}

// MarketOverview is the single-row portfolio overview report.
type MarketOverview struct {
	TotalProperties int     `json:"total_properties"`
	AveragePrice    float64 `json:"average_price"`
	MinPrice        float64 `json:"min_price"`
	MaxPrice        float64 `json:"max_price"`
	AvgPricePerSqft float64 `json:"avg_price_per_sqft"`
	AvgDaysOnMarket float64 `json:"avg_days_on_market"`
	CityCount       int     `json:"city_count"`
	StateCount      int     `json:"state_count"`
}

// LocationStats is one row of the group-by-location report.
type LocationStats struct {
	State           string  `json:"state"`
	City            string  `json:"city"`
	PropertyCount   int     `json:"property_count"`
	AveragePrice    float64 `json:"average_price"`
	AverageRent     float64 `json:"average_rent"`
	AvgPricePerSqft float64 `json:"avg_price_per_sqft"`
	AvgCapRate      float64 `json:"avg_cap_rate"`
}

// CashFlowListing is one row of the cash-flow report: per-property derived
// financials without any scoring applied.
type CashFlowListing struct {
	PropertyID      int64   `json:"property_id"`
	Address         string  `json:"address"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	Price           float64 `json:"price"`
	MonthlyRent     float64 `json:"monthly_rent"`
	CapRate         float64 `json:"cap_rate"`
	MonthlyCashFlow float64 `json:"monthly_cash_flow"`
}

// MarketTrend is one row of the seasonal trend report, bucketed by listing
// month. Velocity classifies the market pace from average days on market.
type MarketTrend struct {
	Month           string  `json:"month"`
	Listings        int     `json:"listings"`
	AveragePrice    float64 `json:"average_price"`
	AvgDaysOnMarket float64 `json:"avg_days_on_market"`
	Velocity        string  `json:"velocity"`
}

// ExecutiveSummary is the final aggregate row printed by the report driver.
type ExecutiveSummary struct {
	TotalProperties int     `json:"total_properties"`
	AveragePrice    float64 `json:"average_price"`
	RentalCount     int     `json:"rental_count"`
	RentalPct       float64 `json:"rental_pct"`
	AvgCapRate      float64 `json:"avg_cap_rate"`
	StateCount      int     `json:"state_count"`
	CityCount       int     `json:"city_count"`
}
