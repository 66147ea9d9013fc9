// Package testkit generates synthetic item and spell definitions for tests.
package testkit

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
)

// ItemGeneratorConfig configures the weapon/armor generator. Values follow
// stat = PerThousand*baseValue/1000 + Base (+ noise) for every slot.
type ItemGeneratorConfig struct {
	Count       int                `json:"count"`
	Slots       []string           `json:"slots"`
	StatField   string             `json:"stat_field"`   // key under "stats"
	PerThousand map[string]float64 `json:"per_thousand"` // slope per slot
	Base        map[string]float64 `json:"base"`         // intercept per slot
	Noise       float64            `json:"noise"`        // uniform +/- noise on the stat
	MissingRate float64            `json:"missing_rate"` // share of items with a null stat
	Seed        int64              `json:"seed"`
}

// DefaultWeaponConfig returns one- and two-hand weapons with exact linear damage
func DefaultWeaponConfig() ItemGeneratorConfig {
	return ItemGeneratorConfig{
		Count:       24,
		Slots:       []string{"one-hand", "two-hand", "ranged"},
		StatField:   "damage",
		PerThousand: map[string]float64{"one-hand": 2, "two-hand": 3, "ranged": 1.5},
		Base:        map[string]float64{"one-hand": 1, "two-hand": 4, "ranged": 2},
		Seed:        42,
	}
}

// ItemGenerator produces item records shaped like the game's JSON assets
type ItemGenerator struct {
	config ItemGeneratorConfig
	rng    *rand.Rand
}

// NewItemGenerator creates a seeded generator
func NewItemGenerator(config ItemGeneratorConfig) *ItemGenerator {
	return &ItemGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns Count items cycling through the configured slots. baseValue
// is a whole number of gold between 500 and 20000.
func (g *ItemGenerator) Generate() []map[string]interface{} {
	items := make([]map[string]interface{}, 0, g.config.Count)
	for i := 0; i < g.config.Count; i++ {
		slot := g.config.Slots[i%len(g.config.Slots)]
		baseValue := float64(500 + g.rng.Intn(39)*500)

		var stat interface{}
		if g.rng.Float64() >= g.config.MissingRate {
			v := g.config.PerThousand[slot]*baseValue/1000 + g.config.Base[slot]
			if g.config.Noise > 0 {
				v += (g.rng.Float64()*2 - 1) * g.config.Noise
			}
			stat = math.Round(v*1000) / 1000
		}

		items = append(items, map[string]interface{}{
			"id":        fmt.Sprintf("item_%03d", i+1),
			"name":      fmt.Sprintf("%s %d", slot, i+1),
			"slot":      slot,
			"baseValue": baseValue,
			"stats":     map[string]interface{}{g.config.StatField: stat},
		})
	}
	return items
}

// SpellGeneratorConfig configures the spell generator
type SpellGeneratorConfig struct {
	Count        int      `json:"count"`
	Elements     []string `json:"elements"`
	DurationRate float64  `json:"duration_rate"` // share of spells with a duration
	Seed         int64    `json:"seed"`
}

// DefaultSpellConfig returns spells over the four elements
func DefaultSpellConfig() SpellGeneratorConfig {
	return SpellGeneratorConfig{
		Count:        20,
		Elements:     []string{"fire", "water", "air", "earth"},
		DurationRate: 0.4,
		Seed:         7,
	}
}

// GenerateSpells returns spells with damage = 3*manaCost and an optional
// duration. manaCost is written as a string on every third spell.
func GenerateSpells(config SpellGeneratorConfig) []map[string]interface{} {
	rng := rand.New(rand.NewSource(config.Seed))
	spells := make([]map[string]interface{}, 0, config.Count)
	for i := 0; i < config.Count; i++ {
		cost := float64(5 + rng.Intn(60))
		spell := map[string]interface{}{
			"name":    fmt.Sprintf("Spell %d", i+1),
			"element": config.Elements[i%len(config.Elements)],
			"effects": map[string]interface{}{"damage": 3 * cost},
		}
		if i%3 == 2 {
			spell["manaCost"] = fmt.Sprintf("%g", cost)
		} else {
			spell["manaCost"] = cost
		}
		if rng.Float64() < config.DurationRate {
			spell["duration"] = float64(1 + rng.Intn(4))
		}
		spells = append(spells, spell)
	}
	return spells
}

// WriteJSON writes records as a JSON array to dir/name and returns the path
func WriteJSON(dir, name string, records interface{}) (string, error) {
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
