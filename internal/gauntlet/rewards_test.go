package gauntlet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/banishment/internal/models"
)

func TestRankForLevel(t *testing.T) {
	cases := map[int]string{1: "Novice", 4: "Novice", 5: "Code Imp", 9: "Code Imp", 10: "Byte Fiend", 19: "Byte Fiend", 20: "Code Devil", 55: "Code Devil"}
	for level, rank := range cases {
		assert.Equal(t, rank, RankForLevel(level), "level %d", level)
	}
}

func TestLevelUp_CarriesRemainder(t *testing.T) {
	p := models.NewPlayer("imp")
	p.XP = 160

	gained := levelUp(&p)

	assert.Equal(t, 1, gained)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 10, p.XP)
	assert.Equal(t, 300, p.XPToNextLevel)
	assert.Equal(t, "Novice", p.Rank)
}

func TestLevelUp_MultipleLevelsAndRank(t *testing.T) {
	p := models.NewPlayer("imp")
	p.Level = 4
	p.XPToNextLevel = 600
	p.XP = 600 + 750 + 5

	gained := levelUp(&p)

	assert.Equal(t, 2, gained)
	assert.Equal(t, 6, p.Level)
	assert.Equal(t, 5, p.XP)
	assert.Equal(t, 900, p.XPToNextLevel)
	assert.Equal(t, "Code Imp", p.Rank)
}

func TestXPFor(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, xpFor(models.DifficultyEasy, models.NoEffect(), now))
	assert.Equal(t, 38, xpFor(models.DifficultyMedium, Blessing(now), now))
	assert.Equal(t, 25, xpFor(models.DifficultyHard, Curse(now), now))
	assert.Equal(t, 50, xpFor(models.DifficultyHard, Curse(now.Add(-time.Hour)), now))
}

func TestClearExpiredEffect(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := models.NewPlayer("imp")

	p.Effect = Blessing(now)
	assert.False(t, clearExpiredEffect(&p, now.Add(time.Minute)))
	assert.Equal(t, models.EffectBlessing, p.Effect.Kind)

	assert.True(t, clearExpiredEffect(&p, now.Add(EffectDuration)))
	assert.Equal(t, models.NoEffect(), p.Effect)
}
