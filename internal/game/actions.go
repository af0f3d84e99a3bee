package game

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrLineNotFound  = errors.New("line not found")
)

// Player actions. Every incrementing action has a *_minus counterpart
// that decrements saturating at zero; it is not a true inverse, just an
// undo affordance for the score keeper.
const (
	ActionPlus               = "plus"
	ActionMinus              = "minus"
	ActionGoal               = "goal"
	ActionGoalMinus          = "goal_minus"
	ActionAssist             = "assist"
	ActionAssistMinus        = "assist_minus"
	ActionUnforcedError      = "unforced_error"
	ActionUnforcedErrorMinus = "unforced_error_minus"
	ActionShotOnGoal         = "shot_on_goal"
	ActionShotOnGoalMinus    = "shot_on_goal_minus"
	ActionPenaltyTaken       = "penalty_taken"
	ActionPenaltyTakenMinus  = "penalty_taken_minus"
	ActionPenaltyDrawn       = "penalty_drawn"
	ActionPenaltyDrawnMinus  = "penalty_drawn_minus"
	ActionSave               = "save"
	ActionSaveMinus          = "save_minus"
	ActionGoalConceded       = "goal_conceded"
	ActionGoalConcededMinus  = "goal_conceded_minus"
)

// dec decrements m[key] clamped at zero and reports whether it moved.
func dec(m map[string]int, key string) bool {
	if m[key] > 0 {
		m[key]--
		return true
	}
	return false
}

// period returns the game's current period, defaulting to the first.
func (g *Game) period() string {
	if ValidPeriod(g.CurrentPeriod) {
		return g.CurrentPeriod
	}
	return "1"
}

func (g *Game) addHome(delta int) {
	p := g.period()
	s := g.Result[p]
	s.Home += delta
	if s.Home < 0 {
		s.Home = 0
	}
	g.Result[p] = s
}

func (g *Game) addAway(delta int) {
	p := g.period()
	s := g.Result[p]
	s.Away += delta
	if s.Away < 0 {
		s.Away = 0
	}
	g.Result[p] = s
}

// scoreHomeGoal applies the secondary effects of a goal for the home
// side: the current period's running score and, when tracking is enabled,
// the opponent pseudo-goalie's conceded count move in lockstep.
func (g *Game) scoreHomeGoal() {
	g.addHome(1)
	if g.OpponentGoalieEnabled {
		touch(&g.OpponentGoalieGoalsConceded, OpponentGoalie)
		g.OpponentGoalieGoalsConceded[OpponentGoalie]++
	}
}

func (g *Game) unscoreHomeGoal() {
	g.addHome(-1)
	if g.OpponentGoalieEnabled {
		touch(&g.OpponentGoalieGoalsConceded, OpponentGoalie)
		dec(g.OpponentGoalieGoalsConceded, OpponentGoalie)
	}
}

// ApplyPlayerAction applies one named action to a single player's
// counters, keeping the running period score in sync for goals.
func (g *Game) ApplyPlayerAction(player, action string) error {
	g.Normalize()
	g.EnsurePlayer(player)

	switch action {
	case ActionPlus:
		g.PlusMinus[player]++
	case ActionMinus:
		dec(g.PlusMinus, player)
	case ActionGoal:
		g.Goals[player]++
		g.scoreHomeGoal()
	case ActionGoalMinus:
		if dec(g.Goals, player) {
			g.unscoreHomeGoal()
		}
	case ActionAssist:
		g.Assists[player]++
	case ActionAssistMinus:
		dec(g.Assists, player)
	case ActionUnforcedError:
		g.UnforcedErrors[player]++
	case ActionUnforcedErrorMinus:
		dec(g.UnforcedErrors, player)
	case ActionShotOnGoal:
		g.ShotsOnGoal[player]++
	case ActionShotOnGoalMinus:
		dec(g.ShotsOnGoal, player)
	case ActionPenaltyTaken:
		g.PenaltiesTaken[player]++
	case ActionPenaltyTakenMinus:
		dec(g.PenaltiesTaken, player)
	case ActionPenaltyDrawn:
		g.PenaltiesDrawn[player]++
	case ActionPenaltyDrawnMinus:
		dec(g.PenaltiesDrawn, player)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

// ApplyGoalieAction applies one named action to a goalie. A conceded goal
// moves the away side of the running score.
func (g *Game) ApplyGoalieAction(goalie, action string) error {
	g.Normalize()
	g.EnsureGoalie(goalie)

	switch action {
	case ActionPlus:
		g.GoaliePlusMinus[goalie]++
	case ActionMinus:
		dec(g.GoaliePlusMinus, goalie)
	case ActionSave:
		g.Saves[goalie]++
	case ActionSaveMinus:
		dec(g.Saves, goalie)
	case ActionGoalConceded:
		g.GoalsConceded[goalie]++
		g.addAway(1)
	case ActionGoalConcededMinus:
		if dec(g.GoalsConceded, goalie) {
			g.addAway(-1)
		}
	case ActionAssist:
		g.Assists[goalie]++
	case ActionAssistMinus:
		dec(g.Assists, goalie)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

// ApplyOpponentGoalieAction updates the synthetic opponent goalie. A goal
// it concedes is a goal for the home side.
func (g *Game) ApplyOpponentGoalieAction(action string) error {
	g.Normalize()
	g.ensureOpponentGoalie()

	switch action {
	case ActionSave:
		g.OpponentGoalieSaves[OpponentGoalie]++
	case ActionSaveMinus:
		dec(g.OpponentGoalieSaves, OpponentGoalie)
	case ActionGoalConceded:
		g.OpponentGoalieGoalsConceded[OpponentGoalie]++
		g.addHome(1)
	case ActionGoalConcededMinus:
		if dec(g.OpponentGoalieGoalsConceded, OpponentGoalie) {
			g.addHome(-1)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

// ApplyLineAction applies a per-player action to every member of one of
// the 4 fixed lines. For a goal the period score and the opponent
// goalie's conceded count move exactly once per call, not once per
// player: one scored goal, however many skaters get credit.
func (g *Game) ApplyLineAction(lineIdx int, action string) error {
	g.Normalize()
	if lineIdx < 0 || lineIdx >= len(g.Lines) {
		return ErrLineNotFound
	}

	switch action {
	case ActionPlus, ActionMinus, ActionGoal, ActionAssist:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if action == ActionGoal {
		g.scoreHomeGoal()
	}

	for _, player := range g.Lines[lineIdx] {
		g.EnsurePlayer(player)
		switch action {
		case ActionPlus:
			g.PlusMinus[player]++
		case ActionMinus:
			dec(g.PlusMinus, player)
		case ActionGoal:
			g.Goals[player]++
		case ActionAssist:
			g.Assists[player]++
		}
	}
	return nil
}

// SetPeriod switches the current period, rejecting anything outside
// {1, 2, 3, OT}.
func (g *Game) SetPeriod(period string) error {
	if !ValidPeriod(period) {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	g.CurrentPeriod = period
	return nil
}

// Reset zeroes every tracked counter for every player appearing in any
// line, every goalie, the opponent pseudo-goalie (only when enabled), and
// the running score of every period. Calling it twice is a no-op.
func (g *Game) Reset() {
	g.Normalize()

	for _, line := range g.Lines {
		for _, player := range line {
			for _, m := range g.playerCounters() {
				(*m)[player] = 0
			}
		}
	}

	for _, goalie := range g.Goalies {
		g.GoaliePlusMinus[goalie] = 0
		g.Saves[goalie] = 0
		g.GoalsConceded[goalie] = 0
	}

	if g.OpponentGoalieEnabled {
		g.OpponentGoalieSaves[OpponentGoalie] = 0
		g.OpponentGoalieGoalsConceded[OpponentGoalie] = 0
	}

	for _, p := range Periods {
		g.Result[p] = Score{}
	}
}
