package config

// DefaultFSRSWeights is the stock FSRS-6 parameter vector (21 parameters)
// used until a user has accumulated enough review history (spec §4.4:
// "optimizable from review history with >= 1,000 reviews") to run
// Params.Optimize. These are the widely-published FSRS-6 default weights.
var DefaultFSRSWeights = [21]float64{
	0.2172, 1.1771, 3.2602, 16.1507, 7.0114, 0.57, 2.0966, 0.0069,
	1.5261, 0.112, 1.0178, 1.849, 0.1133, 0.3127, 2.2934, 0.2191,
	3.0004, 0.7536, 0.3332, 0.1437, 0.2,
}
