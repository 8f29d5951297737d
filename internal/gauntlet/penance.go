package gauntlet

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/vytor/banishment/internal/models"
)

//go:embed data/penance.json
var penanceJSON []byte

var fallbackPenance = models.Penance{
	Task:  "Reflect on your coding mistakes and try again with renewed determination.",
	Quote: "Even the devil's files can sometimes be corrupted. Learn from this failure.",
}

// PenanceCatalog is the fixed list of game-over punishments.
type PenanceCatalog []models.Penance

func LoadPenanceCatalog(raw []byte) (PenanceCatalog, error) {
	var c PenanceCatalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse penance catalog: %w", err)
	}
	return c, nil
}

// DefaultPenanceCatalog returns the embedded catalog.
func DefaultPenanceCatalog() PenanceCatalog {
	c, err := LoadPenanceCatalog(penanceJSON)
	if err != nil {
		panic(err)
	}
	return c
}

// Pick returns a uniformly chosen penance, or a fixed fallback for an empty catalog.
func (c PenanceCatalog) Pick(rng Rand) models.Penance {
	if len(c) == 0 {
		return fallbackPenance
	}
	return c[rng.IntN(len(c))]
}
