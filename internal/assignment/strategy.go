package assignment

// Strategy is the closed set of salesperson selection policies.
type Strategy string

const (
	// StrategyRoundRobin rotates through the pool using a persisted cursor.
	StrategyRoundRobin Strategy = "round_robin"
	// StrategyRandom picks a pool member uniformly at random.
	StrategyRandom Strategy = "random"
	// StrategyLoadBased picks the member with the fewest active leads.
	StrategyLoadBased Strategy = "load_based"
)

// ParseStrategy maps a stored strategy value to a Strategy. Unknown or empty
// values fall back to round-robin; that default is part of the contract, not
// an error.
func ParseStrategy(value string) Strategy {
	switch Strategy(value) {
	case StrategyRandom:
		return StrategyRandom
	case StrategyLoadBased:
		return StrategyLoadBased
	default:
		return StrategyRoundRobin
	}
}

// Valid reports whether the value names a known strategy.
func Valid(value string) bool {
	switch Strategy(value) {
	case StrategyRoundRobin, StrategyRandom, StrategyLoadBased:
		return true
	}
	return false
}

func (s Strategy) String() string { return string(s) }
