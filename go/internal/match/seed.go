package match

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mcdev12/scoreboard/go/internal/models"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document that can replace the built-in match set
type SeedFile struct {
	Matches []models.Match `yaml:"matches" validate:"required,min=1,dive"`
	Roster  *Roster        `yaml:"roster" validate:"omitempty"`
}

// DefaultMatches returns the built-in match set
func DefaultMatches() []models.Match {
	return []models.Match{
		{
			ID:          1,
			HomeTeam:    "Manchester United",
			AwayTeam:    "Liverpool",
			Status:      models.MatchStatusFirstHalf,
			Minute:      1,
			Competition: "Premier League",
			HomeLogo:    "MU",
			AwayLogo:    "LIV",
			GoalHistory: []models.GoalEvent{},
		},
		{
			ID:          2,
			HomeTeam:    "Barcelona",
			AwayTeam:    "Real Madrid",
			Status:      models.MatchStatusNotStarted,
			Minute:      0,
			Competition: "La Liga",
			HomeLogo:    "BAR",
			AwayLogo:    "RMA",
			GoalHistory: []models.GoalEvent{},
		},
		{
			ID:          3,
			HomeTeam:    "Bayern Munich",
			AwayTeam:    "PSG",
			Status:      models.MatchStatusSecondHalf,
			Minute:      46,
			Competition: "Champions League",
			HomeLogo:    "BAY",
			AwayLogo:    "PSG",
			GoalHistory: []models.GoalEvent{},
		},
	}
}

// LoadSeedFile reads and validates a YAML seed file
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := ValidateSeed(seed); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}

	return &seed, nil
}

// ValidateSeed checks field constraints plus the cross-field invariants of every match
func ValidateSeed(seed SeedFile) error {
	if err := validator.New().Struct(seed); err != nil {
		return err
	}

	seen := make(map[int]bool, len(seed.Matches))
	var errs []error
	for _, m := range seed.Matches {
		if seen[m.ID] {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateMatchID, m.ID))
		}
		seen[m.ID] = true

		if !m.ScoreConsistent() {
			errs = append(errs, fmt.Errorf("match %d: score %d-%d does not match goal history", m.ID, m.HomeScore, m.AwayScore))
		}
		for _, g := range m.GoalHistory {
			if g.Team != m.TeamName(g.IsHomeTeam) {
				errs = append(errs, fmt.Errorf("match %d: goal by %s credited to %q", m.ID, g.Scorer, g.Team))
			}
		}
	}

	return errors.Join(errs...)
}
