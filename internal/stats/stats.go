// Package stats aggregates per-player and per-goalie totals over a game
// collection in a single pass and derives Game Score and save-percentage
// metrics.
package stats

import (
	"log/slog"
	"sort"
	"time"

	"github.com/floorstats/tracker/internal/game"
)

// GameScore is the weighted linear performance number for a skater:
// 1.5·G + 1.0·A + 0.1·SOG + 0.3·PM + 0.15·PD − 0.15·PT − 0.2·UE.
func GameScore(goals, assists, plusminus, unforcedErrors, shotsOnGoal, penaltiesDrawn, penaltiesTaken int) float64 {
	return 1.5*float64(goals) +
		1.0*float64(assists) +
		0.1*float64(shotsOnGoal) +
		0.3*float64(plusminus) +
		0.15*float64(penaltiesDrawn) -
		0.15*float64(penaltiesTaken) -
		0.2*float64(unforcedErrors)
}

// GoalieGameScore is the goalie equivalent: 0.10·saves − 0.25·conceded.
func GoalieGameScore(saves, goalsConceded int) float64 {
	return 0.10*float64(saves) - 0.25*float64(goalsConceded)
}

// savePercentage returns 100·saves/(saves+conceded), or nil when the
// goalie faced no shots.
func savePercentage(saves, goalsConceded int) *float64 {
	total := saves + goalsConceded
	if total == 0 {
		return nil
	}
	pct := float64(saves) / float64(total) * 100
	return &pct
}

// PlayerTotals are one skater's accumulated counters across the filtered
// games, with the aggregate Game Score computed from the sums.
type PlayerTotals struct {
	PlusMinus      int     `json:"plusminus"`
	Goals          int     `json:"goals"`
	Assists        int     `json:"assists"`
	UnforcedErrors int     `json:"unforced_errors"`
	ShotsOnGoal    int     `json:"shots_on_goal"`
	PenaltiesTaken int     `json:"penalties_taken"`
	PenaltiesDrawn int     `json:"penalties_drawn"`
	GameScore      float64 `json:"game_score"`
}

func (t PlayerTotals) allZero() bool {
	return t.PlusMinus == 0 && t.Goals == 0 && t.Assists == 0 &&
		t.UnforcedErrors == 0 && t.ShotsOnGoal == 0 &&
		t.PenaltiesTaken == 0 && t.PenaltiesDrawn == 0
}

// GoalieTotals are one goalie's aggregates. Games holds the per-game save
// percentages in order; AverageSavePct is computed from the summed totals,
// not the mean of Games, and is nil when no shots were faced.
type GoalieTotals struct {
	Games          []float64 `json:"games"`
	Saves          int       `json:"total_saves"`
	GoalsConceded  int       `json:"total_goals_conceded"`
	AverageSavePct *float64  `json:"average_save_percentage"`
	GameScore      float64   `json:"game_score"`
}

// OpponentTotals aggregate the synthetic opponent goalie across games
// that track it.
type OpponentTotals struct {
	Games          []float64 `json:"games"`
	Saves          int       `json:"total_saves"`
	GoalsConceded  int       `json:"total_goals_conceded"`
	AverageSavePct *float64  `json:"average_save_percentage"`
}

// GameStats annotates one game with its derived per-entity metrics.
type GameStats struct {
	Game             *game.Game          `json:"game"`
	GameScores       map[string]float64  `json:"game_scores"`
	SavePercentages  map[string]*float64 `json:"save_percentages"`
	GoalieGameScores map[string]float64  `json:"goalie_game_scores"`
	OpponentSavePct  *float64            `json:"opponent_save_percentage"`
}

// Result is the aggregator output. Players and Goalies are the display
// name lists (lexicographic, optionally zero-filtered); the totals maps
// always carry every name seen, filtered or not.
type Result struct {
	Players      []string                 `json:"players"`
	PlayerTotals map[string]*PlayerTotals `json:"player_totals"`
	Goalies      []string                 `json:"goalies"`
	GoalieTotals map[string]*GoalieTotals `json:"goalie_data"`
	Opponent     *OpponentTotals          `json:"opponent_goalie_data"`
	Games        []GameStats              `json:"games"`
}

// Calculate runs the single aggregation pass over games, which the caller
// has already filtered and sorted (see SortForStats). With hideZero set,
// players whose seven totals are all zero and goalies who faced no shots
// are dropped from the name lists only.
func Calculate(games []game.Game, hideZero bool, logger *slog.Logger) *Result {
	playerTotals := make(map[string]*PlayerTotals)
	goalieTotals := make(map[string]*GoalieTotals)
	opponent := &OpponentTotals{Games: []float64{}}

	annotated := make([]GameStats, 0, len(games))

	for i := range games {
		g := &games[i]
		gs := GameStats{
			Game:             g,
			GameScores:       make(map[string]float64),
			SavePercentages:  make(map[string]*float64),
			GoalieGameScores: make(map[string]float64),
		}

		for _, line := range g.Lines {
			for _, player := range line {
				t, ok := playerTotals[player]
				if !ok {
					t = &PlayerTotals{}
					playerTotals[player] = t
				}

				goals := g.Goals[player]
				assists := g.Assists[player]
				plusminus := g.PlusMinus[player]
				unforced := g.UnforcedErrors[player]
				sog := g.ShotsOnGoal[player]
				drawn := g.PenaltiesDrawn[player]
				taken := g.PenaltiesTaken[player]

				t.Goals += goals
				t.Assists += assists
				t.PlusMinus += plusminus
				t.UnforcedErrors += unforced
				t.ShotsOnGoal += sog
				t.PenaltiesDrawn += drawn
				t.PenaltiesTaken += taken

				gs.GameScores[player] = GameScore(goals, assists, plusminus, unforced, sog, drawn, taken)
			}
		}

		for _, goalie := range g.Goalies {
			t, ok := goalieTotals[goalie]
			if !ok {
				t = &GoalieTotals{Games: []float64{}}
				goalieTotals[goalie] = t
			}

			saves := g.Saves[goalie]
			conceded := g.GoalsConceded[goalie]

			// Legacy inference: older games tracked saves but not
			// conceded goals. Substitute the away total from the
			// running score so the save percentage is not a flat 100%.
			if conceded == 0 && saves > 0 {
				awayGoals := 0
				for _, score := range g.Result {
					awayGoals += score.Away
				}
				if awayGoals > 0 {
					logger.Info("inferring goals conceded from period results",
						"game_id", g.ID, "goalie", goalie, "inferred", awayGoals)
					conceded = awayGoals
				}
			}

			if pct := savePercentage(saves, conceded); pct != nil {
				gs.SavePercentages[goalie] = pct
				t.Games = append(t.Games, *pct)
				t.Saves += saves
				t.GoalsConceded += conceded
			} else {
				gs.SavePercentages[goalie] = nil
			}

			gs.GoalieGameScores[goalie] = GoalieGameScore(saves, conceded)
		}

		if g.OpponentGoalieEnabled {
			saves := g.OpponentGoalieSaves[game.OpponentGoalie]
			conceded := g.OpponentGoalieGoalsConceded[game.OpponentGoalie]
			if pct := savePercentage(saves, conceded); pct != nil {
				gs.OpponentSavePct = pct
				opponent.Games = append(opponent.Games, *pct)
				opponent.Saves += saves
				opponent.GoalsConceded += conceded
			}
		}

		annotated = append(annotated, gs)
	}

	// Aggregate Game Scores are recomputed from the summed totals.
	for _, t := range playerTotals {
		t.GameScore = GameScore(t.Goals, t.Assists, t.PlusMinus,
			t.UnforcedErrors, t.ShotsOnGoal, t.PenaltiesDrawn, t.PenaltiesTaken)
	}
	for _, t := range goalieTotals {
		t.AverageSavePct = savePercentage(t.Saves, t.GoalsConceded)
		t.GameScore = GoalieGameScore(t.Saves, t.GoalsConceded)
	}
	opponent.AverageSavePct = savePercentage(opponent.Saves, opponent.GoalsConceded)

	players := make([]string, 0, len(playerTotals))
	for name, t := range playerTotals {
		if hideZero && t.allZero() {
			continue
		}
		players = append(players, name)
	}
	sort.Strings(players)

	goalies := make([]string, 0, len(goalieTotals))
	for name, t := range goalieTotals {
		if hideZero && t.Saves == 0 && t.GoalsConceded == 0 {
			continue
		}
		goalies = append(goalies, name)
	}
	sort.Strings(goalies)

	return &Result{
		Players:      players,
		PlayerTotals: playerTotals,
		Goalies:      goalies,
		GoalieTotals: goalieTotals,
		Opponent:     opponent,
		Games:        annotated,
	}
}

// Filter keeps games matching the season and team selectors; an empty
// selector matches everything.
func Filter(games []game.Game, season, team string) []game.Game {
	out := make([]game.Game, 0, len(games))
	for _, g := range games {
		if season != "" && g.Season != season {
			continue
		}
		if team != "" && g.Team != team {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Teams lists the distinct team categories present in games, sorted.
func Teams(games []game.Game) []string {
	set := make(map[string]struct{})
	for _, g := range games {
		if g.Team != "" {
			set[g.Team] = struct{}{}
		}
	}
	teams := make([]string, 0, len(set))
	for t := range set {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	return teams
}

func gameDate(g game.Game) time.Time {
	if g.Date == "" {
		return time.Time{}
	}
	d, err := time.Parse("2006-01-02", g.Date)
	if err != nil {
		return time.Time{}
	}
	return d
}

// SortForStats orders games date-ascending; within the same date the
// later-created game (higher position in the stored collection) comes
// first. Returns a new slice, the input is untouched.
func SortForStats(games []game.Game) []game.Game {
	idx := make([]int, len(games))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		da, db := gameDate(games[idx[a]]), gameDate(games[idx[b]])
		if !da.Equal(db) {
			return da.Before(db)
		}
		return idx[a] > idx[b]
	})

	out := make([]game.Game, len(games))
	for i, j := range idx {
		out[i] = games[j]
	}
	return out
}

// SortForDisplay is the exact reverse of SortForStats: newest date first,
// earlier-created first within the same date.
func SortForDisplay(games []game.Game) []game.Game {
	sorted := SortForStats(games)
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted
}
