package database

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

type seedCity struct {
	name      string
	state     string
	basePrice float64
}

var seedCities = []seedCity{
	{"Austin", "TX", 400000},
	{"Denver", "CO", 450000},
	{"Phoenix", "AZ", 350000},
	{"Atlanta", "GA", 280000},
	{"Nashville", "TN", 320000},
	{"Charlotte", "NC", 290000},
	{"Tampa", "FL", 300000},
	{"Orlando", "FL", 280000},
	{"Las Vegas", "NV", 380000},
	{"Sacramento", "CA", 480000},
	{"Oklahoma City", "OK", 180000},
	{"Kansas City", "MO", 200000},
}

var (
	seedStreets = []string{"Main", "Oak", "Pine", "Elm", "Cedar", "Park", "First", "Second"}
	seedSuffix  = []string{"St", "Ave", "Dr", "Ln", "Ct"}
	seedTypes   = []string{"Single Family", "Single Family", "Single Family", "Townhouse", "Condo"}
)

// Seed populates the properties table with generated listings across the
// supported markets and rebuilds market_data from them. The generator is
// deterministic for a given seed, which keeps report output reproducible
// in demos and tests.
func (d *Database) Seed(seed int64) (int, error) {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM properties"); err != nil {
		return 0, fmt.Errorf("failed to clear properties: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO properties
		(property_id, address, city, state, zip_code, price, bedrooms, bathrooms,
		 square_feet, property_type, estimated_rental_income, property_taxes,
		 listing_date, days_on_market)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	propertyID := int64(1)
	for _, city := range seedCities {
		count := 15 + rng.Intn(11)
		for i := 0; i < count; i++ {
			bedrooms := weightedChoice(rng, []int{2, 3, 4, 5}, []float64{0.2, 0.4, 0.3, 0.1})
			bathrooms := weightedChoice(rng,
				[]float64{1, 1.5, 2, 2.5, 3, 3.5},
				[]float64{0.1, 0.15, 0.3, 0.2, 0.2, 0.05})

			squareFeet := int(rng.NormFloat64()*200 + 1200 + float64(bedrooms)*300)
			if squareFeet < 400 {
				squareFeet = 400
			}

			variation := rng.NormFloat64()*0.25 + 1.0
			price := math.Max(city.basePrice*variation*float64(squareFeet)/1500, 50000)
			price = math.Floor(price)

			rent := math.Floor(price * (0.008 + rng.Float64()*0.012))
			taxes := math.Floor(price * (0.008 + rng.Float64()*0.017))
			daysOnMarket := int(rng.ExpFloat64() * 45)
			listingDate := now.AddDate(0, 0, -(1 + rng.Intn(549)))

			address := fmt.Sprintf("%d %s %s",
				100+rng.Intn(9900),
				seedStreets[rng.Intn(len(seedStreets))],
				seedSuffix[rng.Intn(len(seedSuffix))])

			_, err = stmt.Exec(
				propertyID,
				address,
				city.name,
				city.state,
				fmt.Sprintf("%05d", 10000+rng.Intn(89999)),
				price,
				bedrooms,
				bathrooms,
				squareFeet,
				seedTypes[rng.Intn(len(seedTypes))],
				rent,
				taxes,
				listingDate.Format("2006-01-02"),
				daysOnMarket,
			)
			if err != nil {
				return 0, fmt.Errorf("failed to insert property: %w", err)
			}
			propertyID++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := d.RefreshMarketData(); err != nil {
		return 0, err
	}

	return int(propertyID - 1), nil
}

func weightedChoice[T any](rng *rand.Rand, values []T, weights []float64) T {
	r := rng.Float64()
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return values[i]
		}
	}
	return values[len(values)-1]
}
