package scoring

import "math"

// rule is one step of a piecewise scoring function. Rules are evaluated
// top-down with first-match-wins semantics; a nil predicate is the
// catch-all and must come last. The ordering matters at bucket boundaries,
// so the tables below are lists, not sorted lookup structures.
type rule struct {
	applies func(v float64) bool
	score   func(v float64) float64
}

func evalRules(rules []rule, v float64) float64 {
	for _, r := range rules {
		if r.applies == nil || r.applies(v) {
			return r.score(v)
		}
	}
	return 0
}

func constant(score float64) func(float64) float64 {
	return func(float64) float64 { return score }
}

// cashFlowRules maps monthly cash flow to 0-100: break-even or worse is 0,
// $1000/month or better is 100, linear in between at one point per $10.
var cashFlowRules = []rule{
	{func(v float64) bool { return v <= 0 }, constant(0)},
	{func(v float64) bool { return v >= 1000 }, constant(100)},
	{nil, func(v float64) float64 { return math.Round(v / 10) }},
}

// capRateRules maps the annual cap rate percentage to 20-100: 3% or below
// floors at 20, 10% or above caps at 100, linear across the 7-point span.
var capRateRules = []rule{
	{func(v float64) bool { return v <= 3 }, constant(20)},
	{func(v float64) bool { return v >= 10 }, constant(100)},
	{nil, func(v float64) float64 { return math.Round(20 + (v-3)*80/7) }},
}

// valueRules scores price per square foot: cheaper is better.
var valueRules = []rule{
	{func(v float64) bool { return v <= 100 }, constant(100)},
	{func(v float64) bool { return v <= 150 }, constant(80)},
	{func(v float64) bool { return v <= 200 }, constant(60)},
	{func(v float64) bool { return v <= 300 }, constant(40)},
	{nil, constant(20)},
}

// sizeRules scores livable area in square feet: bigger is better.
var sizeRules = []rule{
	{func(v float64) bool { return v >= 2000 }, constant(90)},
	{func(v float64) bool { return v >= 1500 }, constant(80)},
	{func(v float64) bool { return v >= 1200 }, constant(70)},
	{func(v float64) bool { return v >= 900 }, constant(50)},
	{nil, constant(30)},
}

// rentRatioRules scores monthly rent per $1000 of price (the "1% rule"
// neighborhood: 1.0 means rent is 1% of price per month).
var rentRatioRules = []rule{
	{func(v float64) bool { return v >= 1.5 }, constant(100)},
	{func(v float64) bool { return v >= 1.2 }, constant(80)},
	{func(v float64) bool { return v >= 1.0 }, constant(60)},
	{func(v float64) bool { return v >= 0.8 }, constant(40)},
	{nil, constant(20)},
}
