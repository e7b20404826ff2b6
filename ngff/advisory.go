package ngff

import "fmt"

// AdvisoryKind classifies non-fatal advisories raised during axis and unit
// inference.  Advisories never abort an operation; they are logged at
// Warning level and returned to the caller alongside the result.
type AdvisoryKind uint8

const (
	// UnitKeyAmbiguity signals fallback from the "unit" attribute key to
	// the legacy "units" key, or the presence of both.
	UnitKeyAmbiguity AdvisoryKind = iota

	// TypeInference signals that an axis type could not be inferred from
	// a unit's dimensionality.
	TypeInference

	// CompoundUnit signals a unit spanning multiple base dimensions, which
	// cannot be mapped to a single axis type.
	CompoundUnit
)

func (k AdvisoryKind) String() string {
	switch k {
	case UnitKeyAmbiguity:
		return "unit key ambiguity"
	case TypeInference:
		return "type inference"
	case CompoundUnit:
		return "compound unit"
	default:
		return "unknown advisory"
	}
}

// Advisory is a non-fatal notice attached to an otherwise successful
// inference result.
type Advisory struct {
	Kind    AdvisoryKind
	Message string
}

func (a Advisory) String() string {
	return fmt.Sprintf("[%s] %s", a.Kind, a.Message)
}

// Advise logs an advisory at Warning level and returns it so callers can
// collect advisories for the operation result.
func Advise(kind AdvisoryKind, format string, args ...interface{}) Advisory {
	msg := fmt.Sprintf(format, args...)
	Warningf("%s\n", msg)
	return Advisory{Kind: kind, Message: msg}
}
