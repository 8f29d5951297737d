package models

import (
	"slices"
	"time"
)

const (
	StartingXPToNextLevel = 150
	StartingRank          = "Novice"
)

type EffectKind string

const (
	EffectNone     EffectKind = ""
	EffectBlessing EffectKind = "blessing"
	EffectCurse    EffectKind = "curse"
)

// ActiveEffect is a time-boxed XP multiplier. At most one is held at a time.
type ActiveEffect struct {
	Kind      EffectKind `json:"type,omitempty"`
	Name      string     `json:"name,omitempty"`
	Modifier  float64    `json:"modifier"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// IsActive reports whether the effect has a kind and has not expired at now.
func (e ActiveEffect) IsActive(now time.Time) bool {
	return e.Kind != EffectNone && e.ExpiresAt != nil && e.ExpiresAt.After(now)
}

// NoEffect is the cleared state.
func NoEffect() ActiveEffect {
	return ActiveEffect{Modifier: 1}
}

// TopicProgress holds lifetime accuracy for one topic. Correct never exceeds TotalAttempted.
type TopicProgress struct {
	Subject        string `json:"subject"`
	SubTopic       string `json:"sub_topic,omitempty"`
	Correct        int    `json:"correct"`
	TotalAttempted int    `json:"total_attempted"`
}

func (p TopicProgress) Key() string {
	return TopicKey(p.Subject, p.SubTopic)
}

type Player struct {
	ID               int64        `json:"id"`
	Username         string       `json:"username"`
	Level            int          `json:"level"`
	XP               int          `json:"xp"`
	XPToNextLevel    int          `json:"xp_to_next_level"`
	Rank             string       `json:"rank"`
	CorrectAnswers   int          `json:"correct_answers"`
	MaxSessionStreak int          `json:"max_session_streak"`
	Effect           ActiveEffect `json:"active_effect"`
	// Progress is kept in first-attempt order.
	Progress  []TopicProgress `json:"progress"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewPlayer returns a level-one player with no progress.
func NewPlayer(username string) Player {
	return Player{
		Username:      username,
		Level:         1,
		XPToNextLevel: StartingXPToNextLevel,
		Rank:          StartingRank,
		Effect:        NoEffect(),
	}
}

// RecordAttempt bumps the progress entry for the topic, creating it at the end
// of the list on first attempt.
func (p *Player) RecordAttempt(subject, subTopic string, correct bool) TopicProgress {
	idx := slices.IndexFunc(p.Progress, func(tp TopicProgress) bool {
		return tp.Subject == subject && tp.SubTopic == subTopic
	})
	if idx < 0 {
		p.Progress = append(p.Progress, TopicProgress{Subject: subject, SubTopic: subTopic})
		idx = len(p.Progress) - 1
	}
	p.Progress[idx].TotalAttempted++
	if correct {
		p.Progress[idx].Correct++
	}
	return p.Progress[idx]
}

// ClearExpiredEffect resets an effect whose expiry has passed at now and
// reports whether it did.
func (p *Player) ClearExpiredEffect(now time.Time) bool {
	if p.Effect.Kind == EffectNone || p.Effect.IsActive(now) {
		return false
	}
	p.Effect = NoEffect()
	return true
}

// Clone returns a deep copy so a turn can be applied and discarded on failure.
func (p *Player) Clone() *Player {
	c := *p
	c.Progress = slices.Clone(p.Progress)
	if p.Effect.ExpiresAt != nil {
		t := *p.Effect.ExpiresAt
		c.Effect.ExpiresAt = &t
	}
	return &c
}
