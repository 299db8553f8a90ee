package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investalytics/server/internal/models"
)

func makeProperty(id int64, price, rent, taxes float64, sqft int) models.Property {
	return models.Property{
		PropertyID:            id,
		Address:               fmt.Sprintf("Test Address %d", id),
		City:                  "Austin",
		State:                 "TX",
		ZipCode:               "78701",
		Price:                 price,
		SquareFeet:            sqft,
		EstimatedRentalIncome: rent,
		PropertyTaxes:         taxes,
	}
}

func TestDeriveReferenceScenario(t *testing.T) {
	// $200k property renting at $1500/month with $2400/year taxes and
	// 1200 sqft is the reference case for the whole formula chain.
	engine := NewEngine(DefaultAssumptions())
	p := makeProperty(1, 200000, 1500, 2400, 1200)

	require.True(t, engine.Eligible(p))
	m := engine.Derive(p)

	assert.InDelta(t, 600.0, m.MonthlyMortgage, 0.001)
	assert.InDelta(t, 200.0, m.MonthlyTax, 0.001)
	assert.InDelta(t, 120.0, m.MonthlyMaintenance, 0.001)
	assert.InDelta(t, 580.0, m.MonthlyCashFlow, 0.001)
	assert.InDelta(t, 9.0, m.AnnualCapRate, 0.001)
	assert.InDelta(t, 166.667, m.PricePerSqft, 0.001)
	assert.InDelta(t, 7.5, m.RentRatio, 0.001)
	assert.InDelta(t, 40000.0, m.DownPayment, 0.001)
	assert.InDelta(t, 580.0*12/40000*100, m.CashOnCashReturn, 0.001)
}

func TestScoreReferenceScenario(t *testing.T) {
	engine := NewEngine(DefaultAssumptions())
	p := makeProperty(1, 200000, 1500, 2400, 1200)

	sp, ok := engine.Score(p)
	require.True(t, ok)

	assert.Equal(t, 58.0, sp.CashFlowScore)  // round(580/10)
	assert.Equal(t, 89.0, sp.CapRateScore)   // round(20 + 6*80/7)
	assert.Equal(t, 60.0, sp.ValueScore)     // 166.67 $/sqft
	assert.Equal(t, 70.0, sp.SizeScore)      // 1200 sqft
	assert.Equal(t, 100.0, sp.RentRatioScore)
	assert.Equal(t, 72.2, sp.CompositeScore) // 17.4+22.25+12.0+10.5+10.0 = 72.15
	assert.Equal(t, RecommendGood, sp.Recommendation)
	assert.Equal(t, 18000.0, sp.AnnualRentalIncome)
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		rules    []rule
		input    float64
		expected float64
	}{
		{"cash flow at break-even", cashFlowRules, 0, 0},
		{"cash flow just above break-even", cashFlowRules, 4, 0}, // round(0.4)
		{"cash flow mid-range", cashFlowRules, 505, 51},
		{"cash flow at cap", cashFlowRules, 1000, 100},
		{"cash flow above cap", cashFlowRules, 2500, 100},
		{"cap rate at floor", capRateRules, 3, 20},
		{"cap rate mid-range", capRateRules, 6.5, 60}, // round(20 + 3.5*80/7)
		{"cap rate at cap", capRateRules, 10, 100},
		{"value at 100", valueRules, 100, 100},
		{"value at 150", valueRules, 150, 80},
		{"value at 200", valueRules, 200, 60},
		{"value at 300", valueRules, 300, 40},
		{"value above 300", valueRules, 300.01, 20},
		{"size at 2000", sizeRules, 2000, 90},
		{"size at 1500", sizeRules, 1500, 80},
		{"size at 1200", sizeRules, 1200, 70},
		{"size at 900", sizeRules, 900, 50},
		{"size below 900", sizeRules, 899, 30},
		{"rent ratio at 1.5", rentRatioRules, 1.5, 100},
		{"rent ratio at 1.2", rentRatioRules, 1.2, 80},
		{"rent ratio at 1.0", rentRatioRules, 1.0, 60},
		{"rent ratio at 0.8", rentRatioRules, 0.8, 40},
		{"rent ratio below 0.8", rentRatioRules, 0.79, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalRules(tt.rules, tt.input))
		})
	}
}

func TestBucketMonotonicity(t *testing.T) {
	// Each piecewise function must be monotonic in its favorable
	// direction; with positive weights that makes the composite monotonic
	// in every sub-score.
	prev := -1.0
	for cf := -100.0; cf <= 1500; cf += 7 {
		score := evalRules(cashFlowRules, cf)
		assert.GreaterOrEqual(t, score, prev, "cash flow score dipped at %v", cf)
		prev = score
	}

	prev = -1.0
	for cr := 0.0; cr <= 12; cr += 0.05 {
		score := evalRules(capRateRules, cr)
		assert.GreaterOrEqual(t, score, prev, "cap rate score dipped at %v", cr)
		prev = score
	}

	prev = 101.0
	for ppsf := 50.0; ppsf <= 400; ppsf += 2.5 {
		score := evalRules(valueRules, ppsf)
		assert.LessOrEqual(t, score, prev, "value score rose at %v $/sqft", ppsf)
		prev = score
	}
}

func TestRecommendationTiers(t *testing.T) {
	tests := []struct {
		composite float64
		expected  string
	}{
		{100, RecommendExcellent},
		{80.0, RecommendExcellent}, // inclusive lower bound
		{79.9, RecommendGood},
		{65.0, RecommendGood},
		{64.9, RecommendConsider},
		{50.0, RecommendConsider},
		{49.99, RecommendAvoid},
		{0, RecommendAvoid},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Recommend(tt.composite), "composite %v", tt.composite)
	}
}

func TestScoreExcludesInvalidRecords(t *testing.T) {
	engine := NewEngine(DefaultAssumptions())

	tests := []struct {
		name string
		prop models.Property
	}{
		{"zero price", makeProperty(1, 0, 1500, 2400, 1200)},
		{"zero square feet", makeProperty(2, 200000, 1500, 2400, 0)},
		{"missing rental income", makeProperty(3, 200000, 0, 2400, 1200)},
		{"zero taxes", makeProperty(4, 200000, 1500, 0, 1200)},
		{"negative price", makeProperty(5, -100, 1500, 2400, 1200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, engine.Eligible(tt.prop))
			_, ok := engine.Score(tt.prop)
			assert.False(t, ok)
		})
	}
}

func TestScoreExcludesNegativeCashFlow(t *testing.T) {
	engine := NewEngine(DefaultAssumptions())

	// $500k at $900/month rents far below carrying costs.
	p := makeProperty(1, 500000, 900, 6000, 1800)
	m := engine.Derive(p)
	require.Negative(t, m.MonthlyCashFlow)

	_, ok := engine.Score(p)
	assert.False(t, ok)
	assert.Empty(t, engine.Rank([]models.Property{p}))
}

func TestCompositeWithinRange(t *testing.T) {
	engine := NewEngine(DefaultAssumptions())

	props := []models.Property{
		makeProperty(1, 80000, 1400, 1200, 2200),   // strong everything
		makeProperty(2, 200000, 1500, 2400, 1200),  // reference case
		makeProperty(3, 350000, 1600, 5000, 950),   // thin margins
		makeProperty(4, 1000000, 4200, 12000, 800), // expensive, small
	}

	for _, p := range props {
		sp, ok := engine.Score(p)
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, sp.CompositeScore, 0.0)
		assert.LessOrEqual(t, sp.CompositeScore, 100.0)
	}
}

func TestRankOrderingAndLimit(t *testing.T) {
	engine := NewEngine(DefaultAssumptions())

	// 40 eligible properties with steadily improving rent.
	var props []models.Property
	for i := 0; i < 40; i++ {
		props = append(props, makeProperty(int64(i+1), 150000, 1300+float64(i)*20, 1800, 1300))
	}

	ranked := engine.Rank(props)
	require.Len(t, ranked, 25)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].CompositeScore, ranked[i].CompositeScore)
	}
}

func TestRankTieBreakIsInputOrder(t *testing.T) {
	engine := NewEngine(DefaultAssumptions())

	// Identical financials, distinct IDs: equal composites must keep
	// their input order.
	props := []models.Property{
		makeProperty(7, 200000, 1500, 2400, 1200),
		makeProperty(3, 200000, 1500, 2400, 1200),
		makeProperty(9, 200000, 1500, 2400, 1200),
	}

	ranked := engine.Rank(props)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(7), ranked[0].PropertyID)
	assert.Equal(t, int64(3), ranked[1].PropertyID)
	assert.Equal(t, int64(9), ranked[2].PropertyID)
}

func TestRankIsIdempotent(t *testing.T) {
	engine := NewEngine(DefaultAssumptions())

	var props []models.Property
	for i := 0; i < 12; i++ {
		props = append(props, makeProperty(int64(i+1), 120000+float64(i)*15000, 1250, 1500+float64(i)*100, 1000+i*120))
	}

	first := engine.Rank(props)
	second := engine.Rank(props)
	assert.Equal(t, first, second)
}

func TestAssumptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultAssumptions().Validate())

	bad := DefaultAssumptions()
	bad.LoanToValue = 1.2
	assert.Error(t, bad.Validate())

	bad = DefaultAssumptions()
	bad.CashFlowWeight = 0.5
	assert.Error(t, bad.Validate())

	bad = DefaultAssumptions()
	bad.ResultLimit = 0
	assert.Error(t, bad.Validate())
}

func TestAlternativeAssumptions(t *testing.T) {
	// Higher interest shrinks cash flow; the engine must honor overrides
	// rather than the baked-in defaults.
	a := DefaultAssumptions()
	a.AnnualInterestRate = 0.07
	engine := NewEngine(a)

	p := makeProperty(1, 200000, 1500, 2400, 1200)
	m := engine.Derive(p)
	assert.InDelta(t, 200000*0.8*0.07/12, m.MonthlyMortgage, 0.001)
	assert.Less(t, m.MonthlyCashFlow, 580.0)
}
