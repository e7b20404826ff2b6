package ngff

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigGetters(t *testing.T) {
	config := NewConfig()
	config.Set("name", "volume")
	config.Set("count", int64(3))
	config.Set("enabled", true)
	config.Set("ratio", 0.5)

	if s, found, err := config.GetString("name"); err != nil || !found || s != "volume" {
		t.Errorf("GetString = %q/%v/%v\n", s, found, err)
	}
	if i, found, err := config.GetInt("count"); err != nil || !found || i != 3 {
		t.Errorf("GetInt = %d/%v/%v\n", i, found, err)
	}
	if b, found, err := config.GetBool("enabled"); err != nil || !found || !b {
		t.Errorf("GetBool = %v/%v/%v\n", b, found, err)
	}
	if f, found, err := config.GetFloat("ratio"); err != nil || !found || f != 0.5 {
		t.Errorf("GetFloat = %v/%v/%v\n", f, found, err)
	}

	if _, found, err := config.GetString("absent"); found || err != nil {
		t.Errorf("absent key should report not found without error\n")
	}
	if _, _, err := config.GetString("count"); err == nil {
		t.Errorf("expected type error reading int as string\n")
	}
	if _, _, err := config.GetBool("name"); err == nil {
		t.Errorf("expected type error reading string as bool\n")
	}
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	doc := []byte("normalize_units = false\ntransform_precision = 3\n")
	if err := os.WriteFile(path, doc, 0644); err != nil {
		t.Fatalf("WriteFile: %v\n", err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v\n", err)
	}
	if s.NormalizeUnits {
		t.Errorf("normalize_units should be overridden to false\n")
	}
	if s.TransformPrecision != 3 {
		t.Errorf("transform_precision = %d, want 3\n", s.TransformPrecision)
	}
	// keys absent from the file keep their defaults
	if !s.InferAxisType {
		t.Errorf("infer_axis_type should keep its default of true\n")
	}

	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected error for missing settings file\n")
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("0.4")
	if err != nil {
		t.Fatalf("ParseVersion(0.4): %v\n", err)
	}
	if v.Major != 0 || v.Minor != 4 || v.Patch != 0 {
		t.Errorf("parsed version = %v\n", v)
	}
	v, err = ParseVersion("0.4.1")
	if err != nil {
		t.Fatalf("ParseVersion(0.4.1): %v\n", err)
	}
	if v.Patch != 1 {
		t.Errorf("patch = %d, want 1\n", v.Patch)
	}
	if _, err := ParseVersion("not-a-version"); err == nil {
		t.Errorf("expected error for malformed tag\n")
	}
}
