package database

import "fmt"

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			property_id INTEGER PRIMARY KEY,
			address TEXT,
			city TEXT,
			state TEXT,
			zip_code TEXT,
			price REAL,
			bedrooms INTEGER,
			bathrooms REAL,
			square_feet INTEGER,
			property_type TEXT,
			estimated_rental_income REAL,
			property_taxes REAL,
			listing_date DATE,
			days_on_market INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create properties table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			month TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT,
			listings INTEGER,
			average_price REAL,
			avg_days_on_market REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create market_data table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS economic_indicators (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			period TEXT NOT NULL,
			value REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create economic_indicators table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_location
		ON properties(state, city);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_listing_date
		ON properties(listing_date);
	`)
	if err != nil {
		return err
	}

	return nil
}
