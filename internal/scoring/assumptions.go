package scoring

import "fmt"

// Assumptions holds the financing and weighting policy behind the
// investment score. These are policy constants, not market data: the
// recognized defaults below are what every report in the suite uses unless
// a caller overrides them.
type Assumptions struct {
	// LoanToValue is the financed share of the purchase price. The
	// remainder is the cash down payment.
	LoanToValue float64

	// AnnualInterestRate is the nominal yearly mortgage rate. The monthly
	// payment is a simple division of the yearly interest, not an
	// amortized-payment formula.
	AnnualInterestRate float64

	// MaintenanceRate is the share of monthly rent reserved for upkeep.
	MaintenanceRate float64

	// Sub-score weights. Must sum to 1 for the composite to stay in 0-100.
	CashFlowWeight  float64
	CapRateWeight   float64
	ValueWeight     float64
	SizeWeight      float64
	RentRatioWeight float64

	// ResultLimit caps the ranked output.
	ResultLimit int
}

// DefaultAssumptions returns the standard underwriting profile: 20% down,
// 4.5% interest, 8% maintenance reserve, 30/25/20/15/10 weights, top 25.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		LoanToValue:        0.80,
		AnnualInterestRate: 0.045,
		MaintenanceRate:    0.08,
		CashFlowWeight:     0.30,
		CapRateWeight:      0.25,
		ValueWeight:        0.20,
		SizeWeight:         0.15,
		RentRatioWeight:    0.10,
		ResultLimit:        25,
	}
}

// Validate checks that the assumptions are internally consistent.
func (a Assumptions) Validate() error {
	if a.LoanToValue < 0 || a.LoanToValue >= 1 {
		return fmt.Errorf("loan-to-value must be in [0, 1), got %v", a.LoanToValue)
	}
	if a.AnnualInterestRate < 0 {
		return fmt.Errorf("interest rate must be >= 0, got %v", a.AnnualInterestRate)
	}
	if a.MaintenanceRate < 0 || a.MaintenanceRate >= 1 {
		return fmt.Errorf("maintenance rate must be in [0, 1), got %v", a.MaintenanceRate)
	}
	sum := a.CashFlowWeight + a.CapRateWeight + a.ValueWeight + a.SizeWeight + a.RentRatioWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("sub-score weights must sum to 1, got %v", sum)
	}
	if a.ResultLimit <= 0 {
		return fmt.Errorf("result limit must be > 0, got %d", a.ResultLimit)
	}
	return nil
}
