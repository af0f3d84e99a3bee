// Package game holds the Game record, its on-disk repository, and the
// state transitions applied to it while a match is being scored.
package game

import "encoding/json"

// Periods a game is played in, in order. "OT" is overtime.
var Periods = []string{"1", "2", "3", "OT"}

// OpponentGoalie is the fixed key of the synthetic opposing-team goalie.
// It is not a roster player; it exists so aggregate opposing goaltending
// can be tracked without naming an individual.
const OpponentGoalie = "Opponent Goalie"

// Score is the running result of one period.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Game is one played match. Counter maps are keyed by the canonical
// player key "{number} - {surname} {name}" (or OpponentGoalie) and only
// contain entries that have been touched at least once; a missing key
// reads as zero.
type Game struct {
	ID       int    `json:"id"`
	Season   string `json:"season"`
	Team     string `json:"team"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Date     string `json:"date"` // ISO YYYY-MM-DD, may be empty
	Referee1 string `json:"referee1,omitempty"`
	Referee2 string `json:"referee2,omitempty"`

	// Lines are the 4 fixed groups of co-deployed players.
	Lines   [][]string `json:"lines"`
	Goalies []string   `json:"goalies"`

	// Special formations: power play, box play, six-on-five, stress line.
	PP1        []string `json:"pp1,omitempty"`
	PP2        []string `json:"pp2,omitempty"`
	BP1        []string `json:"bp1,omitempty"`
	BP2        []string `json:"bp2,omitempty"`
	SixOnFive  []string `json:"6vs5,omitempty"`
	StressLine []string `json:"stress_line,omitempty"`

	OpponentGoalieEnabled bool             `json:"opponent_goalie_enabled"`
	CurrentPeriod         string           `json:"current_period"`
	Result                map[string]Score `json:"result"`

	PlusMinus      map[string]int `json:"plusminus,omitempty"`
	Goals          map[string]int `json:"goals,omitempty"`
	Assists        map[string]int `json:"assists,omitempty"`
	UnforcedErrors map[string]int `json:"unforced_errors,omitempty"`
	ShotsOnGoal    map[string]int `json:"shots_on_goal,omitempty"`
	PenaltiesTaken map[string]int `json:"penalties_taken,omitempty"`
	PenaltiesDrawn map[string]int `json:"penalties_drawn,omitempty"`

	GoaliePlusMinus map[string]int `json:"goalie_plusminus,omitempty"`
	Saves           map[string]int `json:"saves,omitempty"`
	GoalsConceded   map[string]int `json:"goals_conceded,omitempty"`

	OpponentGoalieSaves         map[string]int `json:"opponent_goalie_saves,omitempty"`
	OpponentGoalieGoalsConceded map[string]int `json:"opponent_goalie_goals_conceded,omitempty"`
}

// UnmarshalJSON decodes a game, mapping a missing "id" to -1 so the
// repository's repair pass can tell absent from a legitimate id 0.
func (g *Game) UnmarshalJSON(data []byte) error {
	type alias Game
	aux := alias{ID: -1}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*g = Game(aux)
	return nil
}

// playerCounters returns the per-player maps, materializing nil ones.
func (g *Game) playerCounters() []*map[string]int {
	return []*map[string]int{
		&g.PlusMinus, &g.Goals, &g.Assists, &g.UnforcedErrors,
		&g.ShotsOnGoal, &g.PenaltiesTaken, &g.PenaltiesDrawn,
	}
}

func touch(m *map[string]int, key string) {
	if *m == nil {
		*m = make(map[string]int)
	}
	if _, ok := (*m)[key]; !ok {
		(*m)[key] = 0
	}
}

// EnsurePlayer materializes every per-player counter entry for player.
func (g *Game) EnsurePlayer(player string) {
	for _, m := range g.playerCounters() {
		touch(m, player)
	}
}

// EnsureGoalie materializes every per-goalie counter entry for goalie.
// Goalies share the assists map with skaters.
func (g *Game) EnsureGoalie(goalie string) {
	for _, m := range []*map[string]int{
		&g.GoaliePlusMinus, &g.Saves, &g.GoalsConceded, &g.Assists,
	} {
		touch(m, goalie)
	}
}

func (g *Game) ensureOpponentGoalie() {
	touch(&g.OpponentGoalieSaves, OpponentGoalie)
	touch(&g.OpponentGoalieGoalsConceded, OpponentGoalie)
}

// Normalize repairs a game loaded from older data: missing period
// results, current period, lines, goalies, and counter maps are
// materialized with defaults. It reports whether anything changed so the
// caller knows to persist.
func (g *Game) Normalize() bool {
	changed := false

	if g.Result == nil {
		g.Result = make(map[string]Score, len(Periods))
		changed = true
	}
	for _, p := range Periods {
		if _, ok := g.Result[p]; !ok {
			g.Result[p] = Score{}
			changed = true
		}
	}
	if g.CurrentPeriod == "" {
		g.CurrentPeriod = "1"
		changed = true
	}
	if g.Lines == nil {
		g.Lines = [][]string{}
		changed = true
	}
	if g.Goalies == nil {
		g.Goalies = []string{}
		changed = true
	}

	for _, m := range g.playerCounters() {
		if *m == nil {
			*m = make(map[string]int)
			changed = true
		}
	}
	for _, m := range []*map[string]int{
		&g.GoaliePlusMinus, &g.Saves, &g.GoalsConceded,
		&g.OpponentGoalieSaves, &g.OpponentGoalieGoalsConceded,
	} {
		if *m == nil {
			*m = make(map[string]int)
			changed = true
		}
	}
	return changed
}

// ValidPeriod reports whether p is one of the playable periods.
func ValidPeriod(p string) bool {
	for _, period := range Periods {
		if p == period {
			return true
		}
	}
	return false
}
