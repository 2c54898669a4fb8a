package exact

import "sync/atomic"

// Limits bounds the work done by the operations whose cost grows with the
// size of their inputs.
type Limits struct {
	// MaxExpansionDigits caps the long division in DecimalParts.
	MaxExpansionDigits int `yaml:"max_expansion_digits" mapstructure:"max_expansion_digits"`

	// MaxExpansionWork caps digits times the denominator's bit length in
	// DecimalParts, so a huge denominator gets fewer digits.
	MaxExpansionWork int64 `yaml:"max_expansion_work" mapstructure:"max_expansion_work"`

	// MaxTrialDivisor caps trial division when factoring coefficients for
	// the rational-root search and when extracting square factors.
	MaxTrialDivisor int64 `yaml:"max_trial_divisor" mapstructure:"max_trial_divisor"`

	// FloatDigits is the number of decimal places a Float keeps.
	FloatDigits int `yaml:"float_digits" mapstructure:"float_digits"`

	// MaxExponent caps exponents and root indices.
	MaxExponent int64 `yaml:"max_exponent" mapstructure:"max_exponent"`
}

// DefaultLimits returns the limits used until Configure is called.
func DefaultLimits() Limits {
	return Limits{
		MaxExpansionDigits: 100_000,
		MaxExpansionWork:   1 << 32,
		MaxTrialDivisor:    1_000_000,
		FloatDigits:        15,
		MaxExponent:        1 << 16,
	}
}

var limits atomic.Pointer[Limits]

func init() {
	l := DefaultLimits()
	limits.Store(&l)
}

// Configure replaces the package-wide limits. Non-positive fields fall back
// to their defaults.
func Configure(l Limits) {
	d := DefaultLimits()
	if l.MaxExpansionDigits <= 0 {
		l.MaxExpansionDigits = d.MaxExpansionDigits
	}
	if l.MaxExpansionWork <= 0 {
		l.MaxExpansionWork = d.MaxExpansionWork
	}
	if l.MaxTrialDivisor <= 0 {
		l.MaxTrialDivisor = d.MaxTrialDivisor
	}
	if l.FloatDigits <= 0 {
		l.FloatDigits = d.FloatDigits
	}
	if l.MaxExponent <= 0 {
		l.MaxExponent = d.MaxExponent
	}
	limits.Store(&l)
}

// CurrentLimits returns the limits in effect.
func CurrentLimits() Limits {
	return *limits.Load()
}
