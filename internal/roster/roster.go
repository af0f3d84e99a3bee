// Package roster manages the per-(category, season) player lists. Roster
// files live in one directory and are named roster_<season>_<category>.json,
// or roster_<category>.json for legacy season-less rosters. Category and
// season arrive from untrusted request input, so path resolution is a hard
// security boundary.
package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/floorstats/tracker/internal/storage"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidSeason   = errors.New("invalid season format")
	ErrUnsafePath      = errors.New("path escapes rosters directory")
	ErrNotFound        = errors.New("roster not found")
)

var (
	categoryRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	seasonRe   = regexp.MustCompile(`^\d{4}(-\d{2})?$`)
	unsafeRe   = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)
)

// Player is one roster entry. ID is unique within its roster file only;
// game records reference players by Key instead.
type Player struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Surname  string `json:"surname"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Position string `json:"position"` // A, C, D or P
	Tesser   string `json:"tesser"`   // age/competitive bracket tag
}

// Key is the canonical form game records use to identify a player.
func (p Player) Key() string {
	return fmt.Sprintf("%s - %s %s", p.Number, p.Surname, p.Name)
}

// DisplayName is the short form shown in scoring views: the nickname when
// one is set, the full key otherwise.
func (p Player) DisplayName() string {
	if p.Nickname != "" {
		return fmt.Sprintf("%s - %s", p.Number, p.Nickname)
	}
	return p.Key()
}

// Repository reads and writes roster files under a single root directory.
type Repository struct {
	dir string
}

func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// sanitizeFilename strips directory components, replaces disallowed
// characters, and de-hides leading dots.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeRe.ReplaceAllString(name, "_")
	if strings.HasPrefix(name, ".") {
		name = "_" + name[1:]
	}
	return name
}

// ResolvePath validates category and season and returns the roster file
// path, guaranteed to be contained in the rosters directory. Anything
// that smells like traversal is rejected outright, never quietly mapped
// to a plausible-looking path.
func (r *Repository) ResolvePath(category, season string) (string, error) {
	if category == "" || !categoryRe.MatchString(category) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if season != "" && !seasonRe.MatchString(season) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeason, season)
	}

	var filename string
	if strings.TrimSpace(season) != "" {
		filename = fmt.Sprintf("roster_%s_%s.json", sanitizeFilename(season), sanitizeFilename(category))
	} else {
		filename = fmt.Sprintf("roster_%s.json", sanitizeFilename(category))
	}

	root, err := filepath.Abs(r.dir)
	if err != nil {
		return "", fmt.Errorf("resolving rosters dir: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(root, filename))
	if err != nil {
		return "", fmt.Errorf("resolving roster path: %w", err)
	}
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, filename)
	}
	return path, nil
}

// Load returns the roster for (category, season). An empty category or a
// missing file is an empty roster; a corrupt file is an error.
func (r *Repository) Load(category, season string) ([]Player, error) {
	if category == "" {
		return []Player{}, nil
	}
	path, err := r.ResolvePath(category, season)
	if err != nil {
		return nil, err
	}

	var players []Player
	err = storage.ReadJSON(path, &players)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return []Player{}, nil
	case err != nil:
		return nil, fmt.Errorf("loading roster %s/%s: %w", category, season, err)
	}
	if players == nil {
		players = []Player{}
	}
	return players, nil
}

// Save atomically overwrites the whole roster for (category, season).
func (r *Repository) Save(players []Player, category, season string) error {
	path, err := r.ResolvePath(category, season)
	if err != nil {
		return err
	}
	if err := storage.WriteJSON(path, players); err != nil {
		return fmt.Errorf("saving roster %s/%s: %w", category, season, err)
	}
	return nil
}

// Delete removes the roster file for (category, season).
func (r *Repository) Delete(category, season string) error {
	path, err := r.ResolvePath(category, season)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting roster %s/%s: %w", category, season, err)
	}
	return nil
}

// parseFilename splits roster_<season>_<category>.json or the legacy
// roster_<category>.json into its parts. ok is false for other files.
func parseFilename(name string) (season, category string, ok bool) {
	if !strings.HasPrefix(name, "roster_") || !strings.HasSuffix(name, ".json") {
		return "", "", false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, "roster_"), ".json")
	if rest == "" {
		return "", "", false
	}
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) == 2 {
		return parts[0], parts[1], true
	}
	return "", parts[0], true
}

// Seasons lists every season that has at least one roster file, most
// recent first. Legacy season-less files do not contribute.
func (r *Repository) Seasons() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning rosters dir: %w", err)
	}

	set := make(map[string]struct{})
	for _, e := range entries {
		if season, _, ok := parseFilename(e.Name()); ok && season != "" {
			set[season] = struct{}{}
		}
	}

	seasons := make([]string, 0, len(set))
	for s := range set {
		seasons = append(seasons, s)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(seasons)))
	return seasons, nil
}

// Categories lists categories with a roster file. With a season it only
// considers that season's files; without, it includes legacy files too.
func (r *Repository) Categories(season string) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning rosters dir: %w", err)
	}

	set := make(map[string]struct{})
	for _, e := range entries {
		s, category, ok := parseFilename(e.Name())
		if !ok {
			continue
		}
		if strings.TrimSpace(season) != "" && s != season {
			continue
		}
		set[category] = struct{}{}
	}

	categories := make([]string, 0, len(set))
	for c := range set {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

// TesserValues collects the distinct tesser tags across every roster.
func (r *Repository) TesserValues() ([]string, error) {
	categories, err := r.Categories("")
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, category := range categories {
		players, err := r.Load(category, "")
		if err != nil {
			continue
		}
		for _, p := range players {
			if p.Tesser != "" {
				set[p.Tesser] = struct{}{}
			}
		}
	}

	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// MaxID returns the highest numeric player id in the roster; non-numeric
// ids are skipped.
func MaxID(players []Player) int {
	maxID := 0
	for _, p := range players {
		if n, err := strconv.Atoi(p.ID); err == nil && n > maxID {
			maxID = n
		}
	}
	return maxID
}

// ParseBulk parses pasted roster text, one player per line, fields split
// by tab or comma: number, surname, name, position[, tesser[, nickname]].
// Lines with fewer than 4 fields are skipped. Ids continue from nextID.
func ParseBulk(text string, nextID int) []Player {
	var players []Player
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var parts []string
		if strings.Contains(line, "\t") {
			parts = strings.Split(line, "\t")
		} else {
			parts = strings.Split(line, ",")
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 4 {
			continue
		}

		position := "A"
		if len(parts[3]) == 1 {
			position = strings.ToUpper(parts[3])
		}
		p := Player{
			ID:       strconv.Itoa(nextID),
			Number:   parts[0],
			Surname:  parts[1],
			Name:     parts[2],
			Position: position,
			Tesser:   "U18",
		}
		if len(parts) > 4 {
			p.Tesser = parts[4]
		}
		if len(parts) > 5 {
			p.Nickname = parts[5]
		}
		players = append(players, p)
		nextID++
	}
	return players
}

// SortByNumber orders players by jersey number; unparsable numbers sort
// last.
func SortByNumber(players []Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return numberOf(players[i]) < numberOf(players[j])
	})
}

func numberOf(p Player) int {
	n, err := strconv.Atoi(p.Number)
	if err != nil {
		return 999
	}
	return n
}

// NicknameMap maps each player's canonical key to its display name, for
// rendering game views.
func NicknameMap(players []Player) map[string]string {
	m := make(map[string]string, len(players))
	for _, p := range players {
		if p.Number == "" || p.Surname == "" || p.Name == "" {
			continue
		}
		m[p.Key()] = p.DisplayName()
	}
	return m
}
