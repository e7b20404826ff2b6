package v04

import (
	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
	"github.com/JaneliaSciComp/xarray-ome-ngff/storage"
	"github.com/JaneliaSciComp/xarray-ome-ngff/units"
)

// Options control axis/unit inference and group materialization.
type Options struct {
	// NormalizeUnits canonicalizes unit strings via the registry,
	// e.g. "nm" -> "nanometer".
	NormalizeUnits bool

	// InferAxisType derives an axis type (space/time) from the unit's
	// dimensionality when the coordinate carries no explicit "type"
	// attribute.
	InferAxisType bool

	// TransformPrecision is the number of decimal digits scale and
	// translation values are rounded to.  Negative disables rounding.
	TransformPrecision int

	// Registry resolves unit strings.  Nil uses the shared default
	// registry.
	Registry *units.Registry

	// Chunks is the chunk shape for arrays created during group
	// materialization.  Nil chunks each array as a single chunk.
	Chunks []int

	// Compressor is applied to chunk payloads of created arrays.  Nil
	// stores chunks uncompressed.
	Compressor *storage.CompressorConfig
}

// DefaultOptions mirrors the library-wide default settings.
func DefaultOptions() Options {
	return Options{
		NormalizeUnits:     true,
		InferAxisType:      true,
		TransformPrecision: -1,
	}
}

// OptionsFromSettings builds codec options from loaded settings.
func OptionsFromSettings(s ngff.Settings) Options {
	opts := DefaultOptions()
	opts.NormalizeUnits = s.NormalizeUnits
	opts.InferAxisType = s.InferAxisType
	opts.TransformPrecision = s.TransformPrecision
	return opts
}

func (o Options) registry() *units.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return units.Default()
}
