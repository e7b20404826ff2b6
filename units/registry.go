/*
	Package units provides a registry of physical units supporting
	canonicalization of unit strings ("nm" -> "nanometer") and computation
	of a unit's dimensionality over base physical dimensions.  Lookups are
	case-sensitive since unit symbols are case-significant ("mm" is not "Mm").

	The registry is a process-wide database constructed once and passed
	explicitly into the components that need it.
*/
package units

import (
	"strconv"
	"strings"
	"sync"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
)

// Base physical dimensions, written the way dimensionality maps key them.
const (
	Length      = "[length]"
	Time        = "[time]"
	Mass        = "[mass]"
	Temperature = "[temperature]"
	Current     = "[current]"
	Substance   = "[substance]"
	Luminosity  = "[luminosity]"
)

// Dimensionality maps base dimensions to their exponents, e.g. a velocity
// is {"[length]": 1, "[time]": -1}.  Zero exponents are never stored.
type Dimensionality map[string]int

// Unit is one named unit with its symbol, optional aliases, and
// dimensionality.
type Unit struct {
	Name    string
	Symbol  string
	Aliases []string
	Dims    Dimensionality
}

// prefix is a decimal multiplier prefix applicable to prefixable units.
type prefix struct {
	name   string
	symbol string
}

var prefixes = []prefix{
	{"yotta", "Y"}, {"zetta", "Z"}, {"exa", "E"}, {"peta", "P"},
	{"tera", "T"}, {"giga", "G"}, {"mega", "M"}, {"kilo", "k"},
	{"hecto", "h"}, {"deka", "da"}, {"deci", "d"}, {"centi", "c"},
	{"milli", "m"}, {"micro", "u"}, {"micro", "µ"}, {"nano", "n"},
	{"pico", "p"}, {"femto", "f"}, {"atto", "a"}, {"zepto", "z"},
	{"yocto", "y"},
}

// Registry resolves unit strings to canonical unit names and
// dimensionalities.
type Registry struct {
	byName     map[string]*Unit // canonical names, symbols, and aliases
	prefixable map[string]bool  // canonical names of units accepting SI prefixes
}

// NewRegistry returns a registry loaded with the default unit definitions.
func NewRegistry() *Registry {
	r := &Registry{
		byName:     make(map[string]*Unit),
		prefixable: make(map[string]bool),
	}
	for _, def := range defaultUnits {
		r.Register(def.unit, def.prefixable)
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the shared default registry, constructed on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds a unit to the registry under its name, symbol, and aliases.
// If prefixable, SI-prefixed forms of the name and symbol also resolve.
func (r *Registry) Register(u Unit, prefixable bool) {
	unit := u
	r.byName[unit.Name] = &unit
	if unit.Symbol != "" {
		r.byName[unit.Symbol] = &unit
	}
	for _, alias := range unit.Aliases {
		r.byName[alias] = &unit
	}
	if prefixable {
		r.prefixable[unit.Name] = true
	}
}

// resolve maps a single unit token to its canonical name and dimensionality.
// Exact matches win over prefixed interpretations so that "m" is meter, not
// an incomplete milli.
func (r *Registry) resolve(s string) (name string, dims Dimensionality, ok bool) {
	if u, found := r.byName[s]; found {
		return u.Name, u.Dims, true
	}
	for _, p := range prefixes {
		for _, lead := range []string{p.symbol, p.name} {
			rest := strings.TrimPrefix(s, lead)
			if rest == s || rest == "" {
				continue
			}
			u, found := r.byName[rest]
			if !found || !r.prefixable[u.Name] {
				continue
			}
			return p.name + u.Name, u.Dims, true
		}
	}
	return "", nil, false
}

// Name returns the canonical name for a unit string, e.g. "nm" ->
// "nanometer".  Lookup is case-sensitive.  Compound expressions are
// canonicalized term by term.
func (r *Registry) Name(s string) (string, error) {
	expr, err := parseExpr(s)
	if err != nil {
		return "", err
	}
	terms := make([]string, len(expr))
	for i, t := range expr {
		name, _, ok := r.resolve(t.unit)
		if !ok {
			return "", ngff.UnknownUnitError{Unit: s}
		}
		terms[i] = formatTerm(name, t.exponent)
	}
	return joinTerms(terms, expr), nil
}

// Dimensionality returns the exponents of the base dimensions a unit string
// maps to, e.g. "m/s" -> {"[length]": 1, "[time]": -1}.  Dimensionless
// units yield an empty map.
func (r *Registry) Dimensionality(s string) (Dimensionality, error) {
	expr, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	total := Dimensionality{}
	for _, t := range expr {
		_, dims, ok := r.resolve(t.unit)
		if !ok {
			return nil, ngff.UnknownUnitError{Unit: s}
		}
		for dim, exp := range dims {
			total[dim] += exp * t.exponent
			if total[dim] == 0 {
				delete(total, dim)
			}
		}
	}
	return total, nil
}

// term is one factor of a compound unit expression.
type term struct {
	unit     string
	exponent int
}

// parseExpr splits a unit expression into terms.  Supported syntax is a
// numerator and optional "/" denominator, each a "*" or "·" separated
// product of tokens with optional "^n" or "**n" integer exponents.
func parseExpr(s string) ([]term, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ngff.UnknownUnitError{Unit: s}
	}
	s = strings.ReplaceAll(s, "**", "^")
	var terms []term
	sign := 1
	for _, side := range strings.SplitN(s, "/", 2) {
		for _, factor := range strings.FieldsFunc(side, func(r rune) bool {
			return r == '*' || r == '·'
		}) {
			factor = strings.TrimSpace(factor)
			if factor == "" {
				continue
			}
			exp := 1
			if idx := strings.IndexAny(factor, "^"); idx >= 0 {
				n, err := strconv.Atoi(strings.TrimSpace(factor[idx+1:]))
				if err != nil {
					return nil, ngff.UnknownUnitError{Unit: s}
				}
				exp = n
				factor = strings.TrimSpace(factor[:idx])
			}
			terms = append(terms, term{unit: factor, exponent: sign * exp})
		}
		sign = -1
	}
	if len(terms) == 0 {
		return nil, ngff.UnknownUnitError{Unit: s}
	}
	return terms, nil
}

func formatTerm(name string, exponent int) string {
	exp := exponent
	if exp < 0 {
		exp = -exp
	}
	if exp == 1 {
		return name
	}
	return name + " ** " + strconv.Itoa(exp)
}

// joinTerms reassembles canonicalized terms into "a * b / c * d" form with
// numerator terms first, matching how the original expression was split.
func joinTerms(terms []string, expr []term) string {
	var num, den []string
	for i, t := range expr {
		if t.exponent < 0 {
			den = append(den, terms[i])
		} else {
			num = append(num, terms[i])
		}
	}
	out := strings.Join(num, " * ")
	if len(den) > 0 {
		if out == "" {
			out = "1"
		}
		out += " / " + strings.Join(den, " / ")
	}
	return out
}
