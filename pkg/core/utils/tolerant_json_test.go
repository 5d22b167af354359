package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeTolerantStrict(t *testing.T) {
	var v map[string]interface{}
	if err := DecodeTolerant([]byte(`{"company": "Bayer", "fiscal_year": 2022}`), &v); err != nil {
		t.Fatalf("strict decode failed: %v", err)
	}
	if v["company"] != "Bayer" {
		t.Errorf("company = %v", v["company"])
	}
}

func TestDecodeTolerantRepairs(t *testing.T) {
	// Trailing comma and single quotes, typical of LLM output.
	payload := []byte(`{'company': 'Bayer', 'fiscal_year': 2022,}`)
	var v map[string]interface{}
	if err := DecodeTolerant(payload, &v); err != nil {
		t.Fatalf("repairable payload rejected: %v", err)
	}
	if v["company"] != "Bayer" {
		t.Errorf("company = %v", v["company"])
	}
}

func TestDecodeTolerantFencedPayload(t *testing.T) {
	payload := []byte("```json\n{\"company\": \"BASF\"}\n```")
	var v map[string]interface{}
	if err := DecodeTolerant(payload, &v); err != nil {
		t.Fatalf("fenced payload rejected: %v", err)
	}
	if v["company"] != "BASF" {
		t.Errorf("company = %v", v["company"])
	}
}

func TestReadJSONFileMissing(t *testing.T) {
	var v map[string]interface{}
	if err := ReadJSONFile(filepath.Join(t.TempDir(), "absent.json"), &v); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadHJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.hjson")
	content := `{
  // hand-maintained sector map
  Bayer: Pharmaceuticals
  BASF: Chemicals
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	var v map[string]string
	if err := ReadHJSONFile(path, &v); err != nil {
		t.Fatalf("hjson read failed: %v", err)
	}
	if v["Bayer"] != "Pharmaceuticals" || v["BASF"] != "Chemicals" {
		t.Errorf("overrides = %v", v)
	}
}
