package gauntlet

import (
	"math"
	"time"

	"github.com/vytor/banishment/internal/models"
)

const (
	EffectDuration = 5 * time.Minute
	BlessingStreak = 5
	xpPerLevel     = 150
)

var baseXP = map[models.Difficulty]int{
	models.DifficultyEasy:   10,
	models.DifficultyMedium: 25,
	models.DifficultyHard:   50,
}

var rankThresholds = []struct {
	level int
	rank  string
}{
	{1, "Novice"},
	{5, "Code Imp"},
	{10, "Byte Fiend"},
	{20, "Code Devil"},
}

// BaseXP is the unmodified reward for a correct answer at the given difficulty.
func BaseXP(d models.Difficulty) int {
	return baseXP[d]
}

// RankForLevel returns the highest rank whose threshold the level meets.
func RankForLevel(level int) string {
	rank := rankThresholds[0].rank
	for _, t := range rankThresholds {
		if level >= t.level {
			rank = t.rank
		}
	}
	return rank
}

func Blessing(now time.Time) models.ActiveEffect {
	expires := now.Add(EffectDuration)
	return models.ActiveEffect{Kind: models.EffectBlessing, Name: "Feverish Focus", Modifier: 1.5, ExpiresAt: &expires}
}

func Curse(now time.Time) models.ActiveEffect {
	expires := now.Add(EffectDuration)
	return models.ActiveEffect{Kind: models.EffectCurse, Name: "Crippling Doubt", Modifier: 0.5, ExpiresAt: &expires}
}

// clearExpiredEffect resets an effect whose expiry has passed.
func clearExpiredEffect(p *models.Player, now time.Time) bool {
	return p.ClearExpiredEffect(now)
}

// xpFor applies the modifier of any unexpired effect to the base reward.
func xpFor(d models.Difficulty, effect models.ActiveEffect, now time.Time) int {
	xp := float64(BaseXP(d))
	if effect.IsActive(now) {
		xp *= effect.Modifier
	}
	return int(math.Round(xp))
}

// levelUp converts banked XP into levels, carrying the remainder. It returns
// the number of levels gained.
func levelUp(p *models.Player) int {
	gained := 0
	for p.XPToNextLevel > 0 && p.XP >= p.XPToNextLevel {
		p.XP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = p.Level * xpPerLevel
		gained++
	}
	if gained > 0 {
		p.Rank = RankForLevel(p.Level)
	}
	return gained
}
