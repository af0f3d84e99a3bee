package game

import (
	"errors"
	"testing"
)

func newTestGame() *Game {
	g := &Game{
		ID:       0,
		Team:     "U18",
		HomeTeam: "Lions",
		AwayTeam: "Tigers",
		Lines: [][]string{
			{"7 - Rossi Marco", "12 - Bianchi Luca"},
			{}, {}, {},
		},
		Goalies: []string{"1 - Verdi Paolo"},
	}
	g.Normalize()
	return g
}

func TestPlayerGoalUpdatesScore(t *testing.T) {
	g := newTestGame()

	if err := g.ApplyPlayerAction("7 - Rossi Marco", ActionGoal); err != nil {
		t.Fatalf("goal: %v", err)
	}

	if got := g.Goals["7 - Rossi Marco"]; got != 1 {
		t.Errorf("goals = %d, want 1", got)
	}
	if got := g.Result["1"].Home; got != 1 {
		t.Errorf("home score = %d, want 1", got)
	}
}

func TestGoalInSelectedPeriod(t *testing.T) {
	g := newTestGame()
	if err := g.SetPeriod("OT"); err != nil {
		t.Fatal(err)
	}

	g.ApplyPlayerAction("7 - Rossi Marco", ActionGoal)

	if got := g.Result["OT"].Home; got != 1 {
		t.Errorf("OT home score = %d, want 1", got)
	}
	if got := g.Result["1"].Home; got != 0 {
		t.Errorf("period 1 home score = %d, want 0", got)
	}
}

func TestSaturatingDecrements(t *testing.T) {
	g := newTestGame()
	player := "7 - Rossi Marco"

	minusActions := []string{
		ActionMinus, ActionGoalMinus, ActionAssistMinus,
		ActionUnforcedErrorMinus, ActionShotOnGoalMinus,
		ActionPenaltyTakenMinus, ActionPenaltyDrawnMinus,
	}
	for _, action := range minusActions {
		if err := g.ApplyPlayerAction(player, action); err != nil {
			t.Fatalf("%s: %v", action, err)
		}
	}

	for name, m := range map[string]map[string]int{
		"plusminus":       g.PlusMinus,
		"goals":           g.Goals,
		"assists":         g.Assists,
		"unforced_errors": g.UnforcedErrors,
		"shots_on_goal":   g.ShotsOnGoal,
		"penalties_taken": g.PenaltiesTaken,
		"penalties_drawn": g.PenaltiesDrawn,
	} {
		if got := m[player]; got != 0 {
			t.Errorf("%s = %d after minus at zero, want 0", name, got)
		}
	}
}

func TestGoalMinusAtZeroLeavesScoreAlone(t *testing.T) {
	g := newTestGame()
	g.ApplyGoalieAction("1 - Verdi Paolo", ActionGoalConceded) // away 1

	g.ApplyPlayerAction("7 - Rossi Marco", ActionGoalMinus)

	if got := g.Result["1"].Away; got != 1 {
		t.Errorf("away score = %d, want 1", got)
	}
	if got := g.Result["1"].Home; got != 0 {
		t.Errorf("home score = %d, want 0", got)
	}
}

func TestGoalieConcededUpdatesAwayScore(t *testing.T) {
	g := newTestGame()
	goalie := "1 - Verdi Paolo"

	g.ApplyGoalieAction(goalie, ActionSave)
	g.ApplyGoalieAction(goalie, ActionGoalConceded)

	if got := g.Saves[goalie]; got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}
	if got := g.GoalsConceded[goalie]; got != 1 {
		t.Errorf("conceded = %d, want 1", got)
	}
	if got := g.Result["1"].Away; got != 1 {
		t.Errorf("away score = %d, want 1", got)
	}

	g.ApplyGoalieAction(goalie, ActionGoalConcededMinus)
	if got := g.Result["1"].Away; got != 0 {
		t.Errorf("away score after minus = %d, want 0", got)
	}
}

func TestOpponentGoalieLockstep(t *testing.T) {
	g := newTestGame()
	g.OpponentGoalieEnabled = true

	g.ApplyPlayerAction("7 - Rossi Marco", ActionGoal)

	if got := g.OpponentGoalieGoalsConceded[OpponentGoalie]; got != 1 {
		t.Errorf("opponent conceded = %d, want 1", got)
	}

	g.ApplyPlayerAction("7 - Rossi Marco", ActionGoalMinus)
	if got := g.OpponentGoalieGoalsConceded[OpponentGoalie]; got != 0 {
		t.Errorf("opponent conceded after minus = %d, want 0", got)
	}
}

func TestOpponentGoalieConcededScoresHome(t *testing.T) {
	g := newTestGame()
	g.OpponentGoalieEnabled = true

	g.ApplyOpponentGoalieAction(ActionSave)
	g.ApplyOpponentGoalieAction(ActionGoalConceded)

	if got := g.OpponentGoalieSaves[OpponentGoalie]; got != 1 {
		t.Errorf("opponent saves = %d, want 1", got)
	}
	if got := g.Result["1"].Home; got != 1 {
		t.Errorf("home score = %d, want 1", got)
	}
}

func TestLineGoalCountsOnce(t *testing.T) {
	g := newTestGame()
	g.OpponentGoalieEnabled = true

	if err := g.ApplyLineAction(0, ActionGoal); err != nil {
		t.Fatalf("line goal: %v", err)
	}

	if got := g.Result["1"].Home; got != 1 {
		t.Errorf("home score = %d, want 1 regardless of line size", got)
	}
	if got := g.OpponentGoalieGoalsConceded[OpponentGoalie]; got != 1 {
		t.Errorf("opponent conceded = %d, want 1", got)
	}
	for _, player := range g.Lines[0] {
		if got := g.Goals[player]; got != 1 {
			t.Errorf("goals[%s] = %d, want 1", player, got)
		}
	}
}

func TestLineActionOutOfRange(t *testing.T) {
	g := newTestGame()
	if err := g.ApplyLineAction(4, ActionPlus); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("err = %v, want ErrLineNotFound", err)
	}
	if err := g.ApplyLineAction(-1, ActionPlus); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("err = %v, want ErrLineNotFound", err)
	}
}

func TestUnknownAction(t *testing.T) {
	g := newTestGame()
	if err := g.ApplyPlayerAction("7 - Rossi Marco", "teleport"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("player err = %v, want ErrUnknownAction", err)
	}
	if err := g.ApplyGoalieAction("1 - Verdi Paolo", "shot_on_goal"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("goalie err = %v, want ErrUnknownAction", err)
	}
	if err := g.ApplyOpponentGoalieAction("plus"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("opponent err = %v, want ErrUnknownAction", err)
	}
	if err := g.ApplyLineAction(0, "shot_on_goal"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("line err = %v, want ErrUnknownAction", err)
	}
}

func TestSetPeriodRejectsInvalid(t *testing.T) {
	g := newTestGame()
	for _, p := range []string{"4", "", "ot", "overtime"} {
		if err := g.SetPeriod(p); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("SetPeriod(%q) = %v, want ErrInvalidPeriod", p, err)
		}
	}
	if g.CurrentPeriod != "1" {
		t.Errorf("current period = %q after rejected sets, want 1", g.CurrentPeriod)
	}
}

func TestResetZeroesEverything(t *testing.T) {
	g := newTestGame()
	g.OpponentGoalieEnabled = true

	g.ApplyPlayerAction("7 - Rossi Marco", ActionGoal)
	g.ApplyPlayerAction("7 - Rossi Marco", ActionShotOnGoal)
	g.ApplyPlayerAction("12 - Bianchi Luca", ActionAssist)
	g.ApplyGoalieAction("1 - Verdi Paolo", ActionSave)
	g.ApplyGoalieAction("1 - Verdi Paolo", ActionGoalConceded)
	g.SetPeriod("2")
	g.ApplyPlayerAction("7 - Rossi Marco", ActionGoal)

	g.Reset()

	for _, p := range Periods {
		if g.Result[p] != (Score{}) {
			t.Errorf("result[%s] = %+v, want zero", p, g.Result[p])
		}
	}
	if g.Goals["7 - Rossi Marco"] != 0 || g.ShotsOnGoal["7 - Rossi Marco"] != 0 {
		t.Error("player counters not zeroed")
	}
	if g.Saves["1 - Verdi Paolo"] != 0 || g.GoalsConceded["1 - Verdi Paolo"] != 0 {
		t.Error("goalie counters not zeroed")
	}
	if g.OpponentGoalieGoalsConceded[OpponentGoalie] != 0 {
		t.Error("opponent counters not zeroed")
	}

	// Second reset is a no-op.
	before := g.Result["1"]
	g.Reset()
	if g.Result["1"] != before {
		t.Error("second reset changed the result")
	}
}

func TestEndToEndScenario(t *testing.T) {
	g := newTestGame()
	playerA := "7 - Rossi Marco"
	goalie := "1 - Verdi Paolo"

	if err := g.ApplyPlayerAction(playerA, ActionGoal); err != nil {
		t.Fatal(err)
	}
	if g.Result["1"].Home != 1 || g.Goals[playerA] != 1 {
		t.Fatalf("after goal: home=%d goals=%d", g.Result["1"].Home, g.Goals[playerA])
	}

	if err := g.ApplyGoalieAction(goalie, ActionGoalConceded); err != nil {
		t.Fatal(err)
	}
	if g.Result["1"].Away != 1 {
		t.Fatalf("after conceded: away=%d", g.Result["1"].Away)
	}

	g.Reset()
	for _, p := range Periods {
		if g.Result[p] != (Score{}) {
			t.Errorf("result[%s] not reset", p)
		}
	}
	if g.Goals[playerA] != 0 || g.GoalsConceded[goalie] != 0 {
		t.Error("counters not reset")
	}
}

func TestNormalizeRepairsAndReportsChange(t *testing.T) {
	g := &Game{ID: 3, Lines: [][]string{{"7 - Rossi Marco"}}}
	if !g.Normalize() {
		t.Fatal("Normalize on a bare game reported no change")
	}
	if g.CurrentPeriod != "1" {
		t.Errorf("current period = %q, want 1", g.CurrentPeriod)
	}
	for _, p := range Periods {
		if _, ok := g.Result[p]; !ok {
			t.Errorf("result missing period %s", p)
		}
	}
	if g.Normalize() {
		t.Error("second Normalize reported a change")
	}
}
