package units

// unitDef pairs a unit definition with whether SI prefixes apply to it.
type unitDef struct {
	unit       Unit
	prefixable bool
}

// defaultUnits covers the units in common use for imaging datasets: the SI
// base units plus the non-SI length and time units the OME-NGFF metadata
// format recommends.
var defaultUnits = []unitDef{
	{Unit{Name: "meter", Symbol: "m", Aliases: []string{"metre"}, Dims: Dimensionality{Length: 1}}, true},
	{Unit{Name: "second", Symbol: "s", Aliases: []string{"sec"}, Dims: Dimensionality{Time: 1}}, true},
	{Unit{Name: "gram", Symbol: "g", Dims: Dimensionality{Mass: 1}}, true},
	{Unit{Name: "kelvin", Symbol: "K", Dims: Dimensionality{Temperature: 1}}, true},
	{Unit{Name: "ampere", Symbol: "A", Dims: Dimensionality{Current: 1}}, true},
	{Unit{Name: "mole", Symbol: "mol", Dims: Dimensionality{Substance: 1}}, true},
	{Unit{Name: "candela", Symbol: "cd", Dims: Dimensionality{Luminosity: 1}}, true},

	// non-SI length units recognized by the NGFF space axis vocabulary
	{Unit{Name: "angstrom", Symbol: "Å", Dims: Dimensionality{Length: 1}}, false},
	{Unit{Name: "micron", Dims: Dimensionality{Length: 1}}, false},
	{Unit{Name: "inch", Symbol: "in", Dims: Dimensionality{Length: 1}}, false},
	{Unit{Name: "foot", Symbol: "ft", Dims: Dimensionality{Length: 1}}, false},
	{Unit{Name: "yard", Symbol: "yd", Dims: Dimensionality{Length: 1}}, false},
	{Unit{Name: "mile", Symbol: "mi", Dims: Dimensionality{Length: 1}}, false},
	{Unit{Name: "parsec", Symbol: "pc", Dims: Dimensionality{Length: 1}}, false},

	// non-SI time units
	{Unit{Name: "minute", Symbol: "min", Dims: Dimensionality{Time: 1}}, false},
	{Unit{Name: "hour", Symbol: "h", Aliases: []string{"hr"}, Dims: Dimensionality{Time: 1}}, false},
	{Unit{Name: "day", Symbol: "d", Dims: Dimensionality{Time: 1}}, false},

	// derived and dimensionless units
	{Unit{Name: "hertz", Symbol: "Hz", Dims: Dimensionality{Time: -1}}, true},
	{Unit{Name: "newton", Symbol: "N", Dims: Dimensionality{Mass: 1, Length: 1, Time: -2}}, true},
	{Unit{Name: "pascal", Symbol: "Pa", Dims: Dimensionality{Mass: 1, Length: -1, Time: -2}}, true},
	{Unit{Name: "radian", Symbol: "rad", Dims: Dimensionality{}}, false},
	{Unit{Name: "pixel", Symbol: "px", Dims: Dimensionality{}}, false},
}
