package roster

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(t.TempDir())
}

func TestResolvePathFormats(t *testing.T) {
	r := testRepo(t)

	path, err := r.ResolvePath("U18", "2024-25")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if filepath.Base(path) != "roster_2024-25_U18.json" {
		t.Errorf("path = %s", path)
	}

	// Legacy format without a season.
	path, err = r.ResolvePath("U18", "")
	if err != nil {
		t.Fatalf("ResolvePath legacy: %v", err)
	}
	if filepath.Base(path) != "roster_U18.json" {
		t.Errorf("legacy path = %s", path)
	}
}

func TestResolvePathRejectsTraversal(t *testing.T) {
	r := testRepo(t)

	if _, err := r.ResolvePath("../../etc", "2024"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("category traversal err = %v, want ErrInvalidCategory", err)
	}
	if _, err := r.ResolvePath("U18", "../x"); !errors.Is(err, ErrInvalidSeason) {
		t.Errorf("season traversal err = %v, want ErrInvalidSeason", err)
	}
	if _, err := r.ResolvePath("", ""); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("empty category err = %v, want ErrInvalidCategory", err)
	}
	for _, bad := range []string{"U18/evil", "U18\\evil", "a b", ".hidden"} {
		if _, err := r.ResolvePath(bad, ""); err == nil {
			t.Errorf("ResolvePath(%q) accepted", bad)
		}
	}
	for _, bad := range []string{"20245", "2024-256", "24-25", "season"} {
		if _, err := r.ResolvePath("U18", bad); !errors.Is(err, ErrInvalidSeason) {
			t.Errorf("ResolvePath season %q err = %v, want ErrInvalidSeason", bad, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := testRepo(t)
	players := []Player{
		{ID: "1", Number: "7", Surname: "Rossi", Name: "Marco", Position: "A", Tesser: "U18"},
		{ID: "2", Number: "1", Surname: "Verdi", Name: "Paolo", Position: "P", Tesser: "U18", Nickname: "Wall"},
	}

	if err := r.Save(players, "U18", "2024-25"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := r.Load("U18", "2024-25")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Surname != "Rossi" {
		t.Errorf("loaded = %+v", loaded)
	}

	// A different season is a different roster.
	other, err := r.Load("U18", "2023-24")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("other season has %d players, want 0", len(other))
	}
}

func TestLoadEmptyCategory(t *testing.T) {
	r := testRepo(t)
	players, err := r.Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(players) != 0 {
		t.Errorf("got %d players, want 0", len(players))
	}
}

func TestSeasonsAndCategories(t *testing.T) {
	r := testRepo(t)
	r.Save([]Player{}, "U18", "2024-25")
	r.Save([]Player{}, "U21", "2024-25")
	r.Save([]Player{}, "U18", "2023-24")
	r.Save([]Player{}, "Legacy", "")

	seasons, err := r.Seasons()
	if err != nil {
		t.Fatal(err)
	}
	if len(seasons) != 2 || seasons[0] != "2024-25" || seasons[1] != "2023-24" {
		t.Errorf("seasons = %v, want [2024-25 2023-24]", seasons)
	}

	categories, err := r.Categories("2024-25")
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 2 || categories[0] != "U18" || categories[1] != "U21" {
		t.Errorf("categories(2024-25) = %v", categories)
	}

	all, err := r.Categories("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("categories(all) = %v, want 3 entries including legacy", all)
	}
}

func TestDeleteRoster(t *testing.T) {
	r := testRepo(t)
	r.Save([]Player{{ID: "1"}}, "U18", "")

	if err := r.Delete("U18", ""); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete("U18", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestCorruptRosterIsAnError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "roster_U18.json"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRepository(dir)

	if _, err := r.Load("U18", ""); err == nil {
		t.Fatal("Load on a corrupt roster returned no error")
	}
}

func TestParseBulk(t *testing.T) {
	text := strings.Join([]string{
		"7\tRossi\tMarco\tA\tU18\tRocket",
		"1, Verdi, Paolo, P",
		"too, short",
		"",
		"12,Bianchi,Luca,D,U21",
	}, "\n")

	players := ParseBulk(text, 5)
	if len(players) != 3 {
		t.Fatalf("parsed %d players, want 3", len(players))
	}
	if players[0].ID != "5" || players[0].Nickname != "Rocket" || players[0].Tesser != "U18" {
		t.Errorf("first = %+v", players[0])
	}
	if players[1].ID != "6" || players[1].Position != "P" || players[1].Tesser != "U18" {
		t.Errorf("second = %+v", players[1])
	}
	if players[2].ID != "7" || players[2].Tesser != "U21" {
		t.Errorf("third = %+v", players[2])
	}
}

func TestKeyAndDisplayName(t *testing.T) {
	p := Player{Number: "7", Surname: "Rossi", Name: "Marco"}
	if got := p.Key(); got != "7 - Rossi Marco" {
		t.Errorf("Key = %q", got)
	}
	if got := p.DisplayName(); got != "7 - Rossi Marco" {
		t.Errorf("DisplayName without nickname = %q", got)
	}
	p.Nickname = "Rocket"
	if got := p.DisplayName(); got != "7 - Rocket" {
		t.Errorf("DisplayName with nickname = %q", got)
	}
}

func TestSortByNumber(t *testing.T) {
	players := []Player{
		{Number: "12"}, {Number: "x"}, {Number: "1"}, {Number: "7"},
	}
	SortByNumber(players)
	want := []string{"1", "7", "12", "x"}
	for i, n := range want {
		if players[i].Number != n {
			t.Fatalf("order = %v", players)
		}
	}
}

func TestMaxID(t *testing.T) {
	players := []Player{{ID: "3"}, {ID: "abc"}, {ID: "11"}}
	if got := MaxID(players); got != 11 {
		t.Errorf("MaxID = %d, want 11", got)
	}
	if got := MaxID(nil); got != 0 {
		t.Errorf("MaxID(nil) = %d, want 0", got)
	}
}
