package scoring

import (
	"math"
	"sort"

	"investalytics/server/internal/models"
)

// Metrics holds the financial derivatives of a single property under a
// given set of assumptions. Derived once per property and reused for the
// sub-scores, the composite and the recommendation.
type Metrics struct {
	MonthlyMortgage    float64 `json:"monthly_mortgage"`
	MonthlyTax         float64 `json:"monthly_tax"`
	MonthlyMaintenance float64 `json:"monthly_maintenance"`
	MonthlyCashFlow    float64 `json:"monthly_cash_flow"`
	AnnualCapRate      float64 `json:"annual_cap_rate"`
	PricePerSqft       float64 `json:"price_per_sqft"`
	RentRatio          float64 `json:"rent_ratio"`
	DownPayment        float64 `json:"down_payment"`
	CashOnCashReturn   float64 `json:"cash_on_cash_return"`
}

// ScoredProperty is one row of the ranked investment report: the property,
// its derived financials, the five sub-scores, the weighted composite and
// the recommendation tier.
type ScoredProperty struct {
	models.Property
	AnnualRentalIncome float64 `json:"annual_rental_income"`
	DownPayment        float64 `json:"down_payment"`
	CapRate            float64 `json:"cap_rate"`
	MonthlyCashFlow    float64 `json:"monthly_cash_flow"`
	CashOnCashReturn   float64 `json:"cash_on_cash_return"`
	PricePerSqft       float64 `json:"price_per_sqft"`
	CashFlowScore      float64 `json:"cash_flow_score"`
	CapRateScore       float64 `json:"cap_rate_score"`
	ValueScore         float64 `json:"value_score"`
	SizeScore          float64 `json:"size_score"`
	RentRatioScore     float64 `json:"rent_ratio_score"`
	CompositeScore     float64 `json:"composite_score"`
	Recommendation     string  `json:"recommendation"`
}

// Recommendation tiers, evaluated on the composite score with inclusive
// lower bounds: [80,100] / [65,80) / [50,65) / [0,50).
const (
	RecommendExcellent = "Excellent Investment"
	RecommendGood      = "Good Investment"
	RecommendConsider  = "Consider"
	RecommendAvoid     = "Avoid"
)

// Engine computes investment scores. It is pure and stateless: the same
// input always produces the same ranked output.
type Engine struct {
	assumptions Assumptions
}

// NewEngine creates an engine with the given assumptions.
func NewEngine(a Assumptions) *Engine {
	return &Engine{assumptions: a}
}

// Assumptions returns the engine's policy constants.
func (e *Engine) Assumptions() Assumptions {
	return e.assumptions
}

// Eligible reports whether a property carries the fields scoring needs.
// Records failing this filter are dropped, never scored: the positivity
// checks on price and square feet are what keep the derivations below free
// of division by zero.
func (e *Engine) Eligible(p models.Property) bool {
	return p.Price > 0 &&
		p.EstimatedRentalIncome > 0 &&
		p.PropertyTaxes > 0 &&
		p.SquareFeet > 0
}

// Derive computes the financial metrics for a property. Callers must check
// Eligible first; Derive assumes positive price and square footage.
func (e *Engine) Derive(p models.Property) Metrics {
	a := e.assumptions

	m := Metrics{
		MonthlyMortgage:    p.Price * a.LoanToValue * a.AnnualInterestRate / 12,
		MonthlyTax:         p.PropertyTaxes / 12,
		MonthlyMaintenance: p.EstimatedRentalIncome * a.MaintenanceRate,
		AnnualCapRate:      p.EstimatedRentalIncome * 12 / p.Price * 100,
		PricePerSqft:       p.Price / float64(p.SquareFeet),
		RentRatio:          p.EstimatedRentalIncome / (p.Price / 1000),
		DownPayment:        p.Price * (1 - a.LoanToValue),
	}
	m.MonthlyCashFlow = p.EstimatedRentalIncome - m.MonthlyMortgage - m.MonthlyTax - m.MonthlyMaintenance
	if m.DownPayment > 0 {
		m.CashOnCashReturn = m.MonthlyCashFlow * 12 / m.DownPayment * 100
	}
	return m
}

// Score evaluates a single property. The second return value is false when
// the property is ineligible or its monthly cash flow is not positive;
// such records never appear in the ranked output.
func (e *Engine) Score(p models.Property) (ScoredProperty, bool) {
	if !e.Eligible(p) {
		return ScoredProperty{}, false
	}

	m := e.Derive(p)
	if m.MonthlyCashFlow <= 0 {
		return ScoredProperty{}, false
	}

	a := e.assumptions
	sp := ScoredProperty{
		Property:           p,
		AnnualRentalIncome: p.EstimatedRentalIncome * 12,
		DownPayment:        m.DownPayment,
		CapRate:            m.AnnualCapRate,
		MonthlyCashFlow:    m.MonthlyCashFlow,
		CashOnCashReturn:   m.CashOnCashReturn,
		PricePerSqft:       m.PricePerSqft,
		CashFlowScore:      evalRules(cashFlowRules, m.MonthlyCashFlow),
		CapRateScore:       evalRules(capRateRules, m.AnnualCapRate),
		ValueScore:         evalRules(valueRules, m.PricePerSqft),
		SizeScore:          evalRules(sizeRules, float64(p.SquareFeet)),
		RentRatioScore:     evalRules(rentRatioRules, m.RentRatio),
	}

	composite := sp.CashFlowScore*a.CashFlowWeight +
		sp.CapRateScore*a.CapRateWeight +
		sp.ValueScore*a.ValueWeight +
		sp.SizeScore*a.SizeWeight +
		sp.RentRatioScore*a.RentRatioWeight
	sp.CompositeScore = math.Round(composite*10) / 10
	sp.Recommendation = Recommend(sp.CompositeScore)

	return sp, true
}

// Rank scores a collection of properties and returns them ordered by
// composite score descending, truncated to the configured limit. Ties keep
// input order (stable sort), so ranking is deterministic for a fixed input.
func (e *Engine) Rank(properties []models.Property) []ScoredProperty {
	scored := make([]ScoredProperty, 0, len(properties))
	for _, p := range properties {
		if sp, ok := e.Score(p); ok {
			scored = append(scored, sp)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})

	if len(scored) > e.assumptions.ResultLimit {
		scored = scored[:e.assumptions.ResultLimit]
	}
	return scored
}

// Recommend maps a composite score to its recommendation tier.
func Recommend(composite float64) string {
	switch {
	case composite >= 80:
		return RecommendExcellent
	case composite >= 65:
		return RecommendGood
	case composite >= 50:
		return RecommendConsider
	default:
		return RecommendAvoid
	}
}
