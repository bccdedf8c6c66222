package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcdev12/scoreboard/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultMatches_AreValid(t *testing.T) {
	require.NoError(t, ValidateSeed(SeedFile{Matches: DefaultMatches()}))
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeed(t, `
matches:
  - id: 10
    home_team: Arsenal
    away_team: Chelsea
    status: 1st Half
    minute: 12
    competition: Premier League
    home_logo: ARS
    away_logo: CHE
    home_score: 1
    away_score: 0
    goal_history:
      - team: Arsenal
        scorer: Saka
        minute: 7
        is_home_team: true
  - id: 11
    home_team: Inter
    away_team: Milan
    status: Not Started
roster:
  home: [Saka, Odegaard]
  away: [Palmer]
`)

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)

	require.Len(t, seed.Matches, 2)
	assert.Equal(t, models.MatchStatusFirstHalf, seed.Matches[0].Status)
	assert.Equal(t, "Saka", seed.Matches[0].GoalHistory[0].Scorer)
	assert.Equal(t, models.MatchStatusNotStarted, seed.Matches[1].Status)
	require.NotNil(t, seed.Roster)
	assert.Equal(t, []string{"Palmer"}, seed.Roster.Away)
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown status",
			content: "matches:\n  - {id: 1, home_team: A, away_team: B, status: Extra Time}\n",
		},
		{
			name:    "missing team",
			content: "matches:\n  - {id: 1, home_team: A, status: 1st Half}\n",
		},
		{
			name:    "score disagrees with history",
			content: "matches:\n  - {id: 1, home_team: A, away_team: B, status: 1st Half, home_score: 2}\n",
		},
		{
			name:    "duplicate id",
			content: "matches:\n  - {id: 1, home_team: A, away_team: B, status: 1st Half}\n  - {id: 1, home_team: C, away_team: D, status: 1st Half}\n",
		},
		{
			name:    "goal credited to wrong team",
			content: "matches:\n  - {id: 1, home_team: A, away_team: B, status: 1st Half, home_score: 1, goal_history: [{team: B, scorer: X, minute: 3, is_home_team: true}]}\n",
		},
		{
			name:    "empty roster side",
			content: "matches:\n  - {id: 1, home_team: A, away_team: B, status: 1st Half}\nroster:\n  home: [X]\n  away: []\n",
		},
		{
			name:    "no matches",
			content: "matches: []\n",
		},
		{
			name:    "not yaml",
			content: "matches: [",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeedFile(writeSeed(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
