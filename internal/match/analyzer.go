// Package match turns raw match telemetry into the categorical performance
// signals used for generated content.
package match

import (
	"errors"
	"fmt"

	"github.com/krzotki/eleven-labs-demo/internal/model"
)

// ErrParticipantNotFound is returned when the target player is not in the match.
var ErrParticipantNotFound = errors.New("participant not found in match")

// Classification thresholds on a player's share of the match total.
const (
	HighDamageRatio     = 0.12
	LowDamageRatio      = 0.07
	HighMitigatedRatio  = 0.12
	HighVisionRatio     = 0.10
	LowVisionRatio      = 0.04
	HighObjectivesRatio = 0.12
	HighGoldRatio       = 0.12
)

// Totals are the match-wide sums of the five ranked counters.
type Totals struct {
	Damage     int64
	Mitigated  int64
	Vision     int64
	Objectives int64
	Gold       int64
}

// Ratios are one participant's shares of the match Totals.
type Ratios struct {
	Damage     float64
	Mitigated  float64
	Vision     float64
	Objectives float64
	Gold       float64
}

// Sum adds up the counters of every participant.
func Sum(participants []Participant) Totals {
	var t Totals
	for _, p := range participants {
		t.Damage += p.TotalDamageDealtToChampions
		t.Mitigated += p.DamageSelfMitigated
		t.Vision += p.VisionScore
		t.Objectives += p.DamageDealtToObjectives
		t.Gold += p.GoldEarned
	}
	return t
}

// Ratio is value/total, or 0 when total is 0.
func Ratio(value, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(value) / float64(total)
}

// RatiosOf computes p's share of each total.
func RatiosOf(p Participant, t Totals) Ratios {
	return Ratios{
		Damage:     Ratio(p.TotalDamageDealtToChampions, t.Damage),
		Mitigated:  Ratio(p.DamageSelfMitigated, t.Mitigated),
		Vision:     Ratio(p.VisionScore, t.Vision),
		Objectives: Ratio(p.DamageDealtToObjectives, t.Objectives),
		Gold:       Ratio(p.GoldEarned, t.Gold),
	}
}

// Flags are the standout signals derived from Ratios.
type Flags struct {
	HighDamage           bool
	LowDamage            bool
	HighMitigatedDamage  bool
	HighVisionScore      bool
	LowVisionScore       bool
	HighObjectivesDamage bool
	HighGold             bool
}

// Classify applies the fixed thresholds. Each axis is judged independently.
func Classify(r Ratios) Flags {
	return Flags{
		HighDamage:           r.Damage > HighDamageRatio,
		LowDamage:            r.Damage < LowDamageRatio,
		HighMitigatedDamage:  r.Mitigated > HighMitigatedRatio,
		HighVisionScore:      r.Vision > HighVisionRatio,
		LowVisionScore:       r.Vision < LowVisionRatio,
		HighObjectivesDamage: r.Objectives > HighObjectivesRatio,
		HighGold:             r.Gold > HighGoldRatio,
	}
}

// Teammates returns the participants on target's side, target included.
// Modes with subteams (Arena) group by subteam, everything else by team.
func Teammates(participants []Participant, target Participant) []Participant {
	var team []Participant
	for _, p := range participants {
		if p.PlayerSubteamID != 0 {
			if p.PlayerSubteamID == target.PlayerSubteamID {
				team = append(team, p)
			}
			continue
		}
		if p.TeamID == target.TeamID {
			team = append(team, p)
		}
	}
	return team
}

// Score is the composite teammate score. Zero deaths count as one.
func Score(p Participant, t Totals) float64 {
	deaths := p.Deaths
	if deaths == 0 {
		deaths = 1
	}
	r := RatiosOf(p, t)
	kda := float64(p.Kills+p.Assists) / float64(deaths)
	return kda * r.Damage * r.Mitigated * r.Objectives * r.Gold
}

// BestTeammate returns the highest scoring participant of team. On equal
// scores the earliest one wins. ok is false for an empty team.
func BestTeammate(team []Participant, t Totals) (best Participant, ok bool) {
	bestScore := 0.0
	for i, p := range team {
		s := Score(p, t)
		if i == 0 || s > bestScore {
			best, bestScore = p, s
		}
	}
	return best, len(team) > 0
}

// Analyze computes the stats of the participant identified by puuid. Names
// found in aliases are replaced by their alias.
func Analyze(m *Match, puuid, name string, aliases map[string]string) (model.MatchStats, error) {
	if m == nil {
		return model.MatchStats{}, fmt.Errorf("analyzing match: %w", ErrParticipantNotFound)
	}
	participants := m.Info.Participants

	idx := -1
	for i, p := range participants {
		if p.PUUID == puuid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.MatchStats{}, fmt.Errorf("analyzing match %s: %w", m.Metadata.MatchID, ErrParticipantNotFound)
	}
	target := participants[idx]

	totals := Sum(participants)
	flags := Classify(RatiosOf(target, totals))

	if name == "" {
		name = target.DisplayName()
	}

	stats := model.MatchStats{
		Name:                 alias(aliases, name),
		Champion:             target.ChampionName,
		Damage:               target.TotalDamageDealtToChampions,
		GameType:             m.Info.GameMode,
		KDA:                  fmt.Sprintf("%d/%d/%d", target.Kills, target.Deaths, target.Assists),
		Position:             target.IndividualPosition,
		Win:                  target.Win,
		HighDamage:           flags.HighDamage,
		LowDamage:            flags.LowDamage,
		HighMitigatedDamage:  flags.HighMitigatedDamage,
		HighVisionScore:      flags.HighVisionScore,
		LowVisionScore:       flags.LowVisionScore,
		HighObjectivesDamage: flags.HighObjectivesDamage,
		HighGold:             flags.HighGold,
	}

	if best, ok := BestTeammate(Teammates(participants, target), totals); ok {
		stats.BestTeammate = alias(aliases, best.DisplayName())
	}
	return stats, nil
}

func alias(aliases map[string]string, name string) string {
	if real, ok := aliases[name]; ok && real != "" {
		return real
	}
	return name
}
