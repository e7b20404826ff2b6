package units

import (
	"errors"
	"testing"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
)

func TestName(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		in   string
		want string
	}{
		{"nm", "nanometer"},
		{"nanometer", "nanometer"},
		{"um", "micrometer"},
		{"µm", "micrometer"},
		{"m", "meter"},
		{"mm", "millimeter"},
		{"Mm", "megameter"},
		{"s", "second"},
		{"ms", "millisecond"},
		{"min", "minute"},
		{"micron", "micron"},
		{"Hz", "hertz"},
		{"kHz", "kilohertz"},
		{"m/s", "meter / second"},
		{"m * s", "meter * second"},
		{"m^2", "meter ** 2"},
	}
	for _, tc := range tests {
		got, err := reg.Name(tc.in)
		if err != nil {
			t.Errorf("Name(%q) returned error: %v\n", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Name(%q) = %q, want %q\n", tc.in, got, tc.want)
		}
	}
}

func TestNameCaseSensitive(t *testing.T) {
	reg := NewRegistry()
	for _, bad := range []string{"NM", "Nm", "SEC", "Meter", ""} {
		if got, err := reg.Name(bad); err == nil {
			t.Errorf("Name(%q) = %q, expected unknown unit error\n", bad, got)
		}
	}
	_, err := reg.Name("NM")
	var unknown ngff.UnknownUnitError
	if !errors.As(err, &unknown) {
		t.Errorf("Name(%q) error %v is not an UnknownUnitError\n", "NM", err)
	}
	if unknown.Unit != "NM" {
		t.Errorf("UnknownUnitError names unit %q, want %q\n", unknown.Unit, "NM")
	}
}

func TestDimensionality(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		in   string
		want Dimensionality
	}{
		{"nm", Dimensionality{Length: 1}},
		{"nanometer", Dimensionality{Length: 1}},
		{"s", Dimensionality{Time: 1}},
		{"hour", Dimensionality{Time: 1}},
		{"Hz", Dimensionality{Time: -1}},
		{"m/s", Dimensionality{Length: 1, Time: -1}},
		{"m^2", Dimensionality{Length: 2}},
		{"m/m", Dimensionality{}},
		{"px", Dimensionality{}},
		{"N", Dimensionality{Mass: 1, Length: 1, Time: -2}},
	}
	for _, tc := range tests {
		got, err := reg.Dimensionality(tc.in)
		if err != nil {
			t.Errorf("Dimensionality(%q) returned error: %v\n", tc.in, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("Dimensionality(%q) = %v, want %v\n", tc.in, got, tc.want)
			continue
		}
		for dim, exp := range tc.want {
			if got[dim] != exp {
				t.Errorf("Dimensionality(%q)[%s] = %d, want %d\n", tc.in, dim, got[dim], exp)
			}
		}
	}
}

func TestDefaultRegistryShared(t *testing.T) {
	if Default() != Default() {
		t.Errorf("Default() should return the same registry on each call\n")
	}
}
