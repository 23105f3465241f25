package model

// ReliabilityInput is the read-only output of the reliability collaborator,
// consumed once at initialization: per-component annual failure rates and the
// system hierarchy expressed as breakdown sets.
type ReliabilityInput struct {
	// AnnualRates maps component ID to failures per year.
	AnnualRates map[string]float64

	// Breakdown maps component ID to the devices affected by its failure.
	Breakdown map[string]BreakdownSet
}

// Apply copies rates and breakdown sets onto the matching components.
// Components without an entry keep their configured values.
func (r ReliabilityInput) Apply(components []*Component) {
	for _, c := range components {
		if rate, ok := r.AnnualRates[c.ID]; ok {
			c.AnnualFailureRate = rate
		}
		if bd, ok := r.Breakdown[c.ID]; ok {
			c.Breakdown = bd
		}
	}
}
