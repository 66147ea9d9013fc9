package testkit

import (
	"encoding/json"
	"os"
	"testing"
)

func TestItemGenerator_Deterministic(t *testing.T) {
	a := NewItemGenerator(DefaultWeaponConfig()).Generate()
	b := NewItemGenerator(DefaultWeaponConfig()).Generate()

	if len(a) != 24 {
		t.Fatalf("Expected 24 items, got %d", len(a))
	}
	for i := range a {
		if a[i]["baseValue"] != b[i]["baseValue"] {
			t.Errorf("Item %d differs between runs with the same seed", i)
		}
	}
}

func TestItemGenerator_ExactStats(t *testing.T) {
	config := DefaultWeaponConfig()
	for _, item := range NewItemGenerator(config).Generate() {
		slot := item["slot"].(string)
		value := item["baseValue"].(float64)
		damage := item["stats"].(map[string]interface{})["damage"].(float64)

		want := config.PerThousand[slot]*value/1000 + config.Base[slot]
		if diff := damage - want; diff > 1e-3 || diff < -1e-3 {
			t.Errorf("%s: damage %v, want %v", item["name"], damage, want)
		}
	}
}

func TestItemGenerator_MissingStats(t *testing.T) {
	config := DefaultWeaponConfig()
	config.MissingRate = 1
	for _, item := range NewItemGenerator(config).Generate() {
		if item["stats"].(map[string]interface{})["damage"] != nil {
			t.Fatalf("Expected every damage to be null")
		}
	}
}

func TestGenerateSpells(t *testing.T) {
	spells := GenerateSpells(DefaultSpellConfig())
	if len(spells) != 20 {
		t.Fatalf("Expected 20 spells, got %d", len(spells))
	}
	if _, ok := spells[2]["manaCost"].(string); !ok {
		t.Errorf("Expected every third manaCost to be text, got %T", spells[2]["manaCost"])
	}
}

func TestWriteJSON(t *testing.T) {
	path, err := WriteJSON(t.TempDir(), "items/weapons.json", NewItemGenerator(DefaultWeaponConfig()).Generate())
	if err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Fixture is not a JSON array: %v", err)
	}
	if len(decoded) != 24 {
		t.Errorf("Expected 24 records, got %d", len(decoded))
	}
}
