package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"investalytics/server/internal/models"
	"investalytics/server/internal/scoring"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// GetMarketOverview returns portfolio-wide counts and price aggregates.
func (d *Database) GetMarketOverview() (models.MarketOverview, error) {
	query := `
        SELECT
            COUNT(*) as total_properties,
            COALESCE(AVG(price), 0) as average_price,
            COALESCE(MIN(price), 0) as min_price,
            COALESCE(MAX(price), 0) as max_price,
            COALESCE(AVG(CAST(price AS FLOAT) / NULLIF(square_feet, 0)), 0) as avg_price_per_sqft,
            COALESCE(AVG(days_on_market), 0) as avg_days_on_market,
            COUNT(DISTINCT city) as city_count,
            COUNT(DISTINCT state) as state_count
        FROM properties
        WHERE price > 0
    `
	var overview models.MarketOverview
	err := d.db.QueryRow(query).Scan(
		&overview.TotalProperties,
		&overview.AveragePrice,
		&overview.MinPrice,
		&overview.MaxPrice,
		&overview.AvgPricePerSqft,
		&overview.AvgDaysOnMarket,
		&overview.CityCount,
		&overview.StateCount,
	)
	return overview, err
}

// GetLocationStats groups rental-ready properties by state and city.
// Locations with fewer than minCount properties are dropped so thin
// samples don't dominate the cap-rate ordering.
func (d *Database) GetLocationStats(minCount int) ([]models.LocationStats, error) {
	query := `
        SELECT
            state,
            city,
            COUNT(*) as property_count,
            AVG(price) as average_price,
            AVG(estimated_rental_income) as average_rent,
            AVG(CAST(price AS FLOAT) / NULLIF(square_feet, 0)) as avg_price_per_sqft,
            AVG(estimated_rental_income * 12.0 / NULLIF(price, 0) * 100) as avg_cap_rate
        FROM properties
        WHERE price > 0 AND estimated_rental_income > 0
        GROUP BY state, city
        HAVING COUNT(*) >= ?
        ORDER BY avg_cap_rate DESC
    `
	rows, err := d.db.Query(query, minCount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.LocationStats
	for rows.Next() {
		var s models.LocationStats
		err := rows.Scan(
			&s.State,
			&s.City,
			&s.PropertyCount,
			&s.AveragePrice,
			&s.AverageRent,
			&s.AvgPricePerSqft,
			&s.AvgCapRate,
		)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// GetCashFlowListings returns per-property derived financials without
// scoring, ordered by cap rate. The financing assumptions are bound as
// parameters so the SQL stays in step with the scoring engine's policy.
func (d *Database) GetCashFlowListings(a scoring.Assumptions, limit int) ([]models.CashFlowListing, error) {
	query := `
        SELECT
            property_id,
            address,
            city,
            state,
            price,
            estimated_rental_income,
            estimated_rental_income * 12.0 / price * 100 as cap_rate,
            estimated_rental_income
                - (price * ? * ? / 12)
                - (property_taxes / 12.0)
                - (estimated_rental_income * ?) as monthly_cash_flow
        FROM properties
        WHERE price > 0
            AND estimated_rental_income > 0
            AND property_taxes > 0
            AND square_feet > 0
        ORDER BY cap_rate DESC
        LIMIT ?
    `
	rows, err := d.db.Query(query, a.LoanToValue, a.AnnualInterestRate, a.MaintenanceRate, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.CashFlowListing
	for rows.Next() {
		var l models.CashFlowListing
		err := rows.Scan(
			&l.PropertyID,
			&l.Address,
			&l.City,
			&l.State,
			&l.Price,
			&l.MonthlyRent,
			&l.CapRate,
			&l.MonthlyCashFlow,
		)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// GetMarketTrends buckets listings by month. Velocity follows the usual
// agent shorthand: under 30 days on market is Hot, under 60 Warm, else Cool.
func (d *Database) GetMarketTrends() ([]models.MarketTrend, error) {
	query := `
        SELECT
            strftime('%Y-%m', listing_date) as month,
            COUNT(*) as listings,
            COALESCE(AVG(price), 0) as average_price,
            COALESCE(AVG(days_on_market), 0) as avg_days_on_market,
            CASE
                WHEN AVG(days_on_market) < 30 THEN 'Hot'
                WHEN AVG(days_on_market) < 60 THEN 'Warm'
                ELSE 'Cool'
            END as velocity
        FROM properties
        WHERE listing_date IS NOT NULL AND listing_date != ''
        GROUP BY strftime('%Y-%m', listing_date)
        ORDER BY month
    `
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []models.MarketTrend
	for rows.Next() {
		var t models.MarketTrend
		err := rows.Scan(
			&t.Month,
			&t.Listings,
			&t.AveragePrice,
			&t.AvgDaysOnMarket,
			&t.Velocity,
		)
		if err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// GetScoringCandidates returns properties that carry every field the
// scoring engine needs. The positivity filter here is the structural guard
// against division by zero downstream; incomplete records simply never
// reach the engine.
func (d *Database) GetScoringCandidates() ([]models.Property, error) {
	query := `
        SELECT
            property_id,
            COALESCE(address, '') as address,
            COALESCE(city, '') as city,
            COALESCE(state, '') as state,
            COALESCE(zip_code, '') as zip_code,
            price,
            bedrooms,
            bathrooms,
            square_feet,
            COALESCE(property_type, '') as property_type,
            estimated_rental_income,
            property_taxes,
            COALESCE(listing_date, '') as listing_date,
            COALESCE(days_on_market, 0) as days_on_market
        FROM properties
        WHERE price > 0
            AND estimated_rental_income > 0
            AND property_taxes > 0
            AND square_feet > 0
        ORDER BY property_id
    `
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// GetAllProperties returns every listing, optionally filtered by city.
func (d *Database) GetAllProperties(city string) ([]models.Property, error) {
	query := `
        SELECT
            property_id,
            COALESCE(address, '') as address,
            COALESCE(city, '') as city,
            COALESCE(state, '') as state,
            COALESCE(zip_code, '') as zip_code,
            COALESCE(price, 0) as price,
            bedrooms,
            bathrooms,
            COALESCE(square_feet, 0) as square_feet,
            COALESCE(property_type, '') as property_type,
            COALESCE(estimated_rental_income, 0) as estimated_rental_income,
            COALESCE(property_taxes, 0) as property_taxes,
            COALESCE(listing_date, '') as listing_date,
            COALESCE(days_on_market, 0) as days_on_market
        FROM properties
        WHERE (? = '' OR LOWER(city) = LOWER(?))
        ORDER BY property_id
    `
	rows, err := d.db.Query(query, city, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// GetExecutiveSummary computes the closing aggregate of the report suite.
func (d *Database) GetExecutiveSummary() (models.ExecutiveSummary, error) {
	query := `
        SELECT
            COUNT(*) as total_properties,
            COALESCE(AVG(price), 0) as average_price,
            COALESCE(SUM(CASE WHEN estimated_rental_income > 0 THEN 1 ELSE 0 END), 0) as rental_count,
            COALESCE(SUM(CASE WHEN estimated_rental_income > 0 THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(*), 0), 0) as rental_pct,
            COALESCE(AVG(CASE WHEN price > 0 AND estimated_rental_income > 0
                THEN estimated_rental_income * 12.0 / price * 100 END), 0) as avg_cap_rate,
            COUNT(DISTINCT state) as state_count,
            COUNT(DISTINCT city) as city_count
        FROM properties
    `
	var summary models.ExecutiveSummary
	err := d.db.QueryRow(query).Scan(
		&summary.TotalProperties,
		&summary.AveragePrice,
		&summary.RentalCount,
		&summary.RentalPct,
		&summary.AvgCapRate,
		&summary.StateCount,
		&summary.CityCount,
	)
	return summary, err
}

// RefreshMarketData rebuilds the market_data table from the properties
// table: one row per city and listing month.
func (d *Database) RefreshMarketData() error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM market_data"); err != nil {
		return fmt.Errorf("failed to clear market data: %w", err)
	}

	_, err = tx.Exec(`
        INSERT INTO market_data (month, city, state, listings, average_price, avg_days_on_market)
        SELECT
            strftime('%Y-%m', listing_date),
            city,
            state,
            COUNT(*),
            AVG(price),
            AVG(days_on_market)
        FROM properties
        WHERE listing_date IS NOT NULL AND listing_date != ''
        GROUP BY strftime('%Y-%m', listing_date), city, state
    `)
	if err != nil {
		return fmt.Errorf("failed to rebuild market data: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanProperty(rows *sql.Rows) (models.Property, error) {
	var p models.Property
	var bedrooms sql.NullInt64
	var bathrooms sql.NullFloat64
	var listingDate string

	err := rows.Scan(
		&p.PropertyID,
		&p.Address,
		&p.City,
		&p.State,
		&p.ZipCode,
		&p.Price,
		&bedrooms,
		&bathrooms,
		&p.SquareFeet,
		&p.PropertyType,
		&p.EstimatedRentalIncome,
		&p.PropertyTaxes,
		&listingDate,
		&p.DaysOnMarket,
	)
	if err != nil {
		return p, err
	}

	if bedrooms.Valid {
		b := int(bedrooms.Int64)
		p.Bedrooms = &b
	}
	if bathrooms.Valid {
		b := bathrooms.Float64
		p.Bathrooms = &b
	}
	if listingDate != "" {
		// Rows written through gorm carry full timestamps, seeded rows
		// carry bare dates.
		if t, err := time.Parse("2006-01-02", listingDate); err == nil {
			p.ListingDate = t
		} else if t, err := time.Parse(time.RFC3339, listingDate); err == nil {
			p.ListingDate = t
		}
	}
	return p, nil
}
