package cricbuzz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoInningsScorecard = `{
  "matchHeader": {"state": "Complete", "status": "India won by 7 wkts"},
  "scoreCard": [
    {
      "batTeamDetails": {
        "batsmenData": {
          "bat_1": {"batId": 101, "batName": "RG Sharma", "runs": 52, "fours": 6, "sixes": 2,
                    "wicketCode": "CAUGHT", "fielderId1": 201},
          "bat_2": {"batId": "102", "batName": "V Kohli", "runs": "30", "fours": 3, "sixes": 0,
                    "wicketCode": "RUNOUT", "fielderId1": 202, "fielderId2": 203}
        }
      },
      "bowlTeamDetails": {
        "bowlersData": {
          "bowl_1": {"bowlerId": 201, "bowlName": "MA Starc", "wickets": 2},
          "bowl_2": {"bowlerId": 204, "bowlerName": "PJ Cummins", "wickets": 1}
        }
      }
    },
    {
      "batTeamDetails": {
        "batsmenData": {
          "bat_1": {"batId": 101, "batName": "RG Sharma", "runs": 18, "fours": 2, "sixes": 1,
                    "wicketCode": "RUNOUT", "fielderId1": 202, "fielderId2": 202}
        }
      },
      "bowlTeamDetails": {
        "bowlersData": {
          "bowl_1": {"bowlerId": 201, "bowlName": "MA Starc", "wickets": 3}
        }
      }
    }
  ]
}`

func TestParseScorecardAccumulatesAcrossInnings(t *testing.T) {
	t.Parallel()

	extract, ok := parseScorecard([]byte(twoInningsScorecard))
	require.True(t, ok)

	sharma := extract.StatsByID["101"]
	assert.Equal(t, 70, sharma.Runs)
	assert.Equal(t, 8, sharma.Fours)
	assert.Equal(t, 3, sharma.Sixes)

	starc := extract.StatsByID["201"]
	assert.Equal(t, 5, starc.Wickets)
	assert.Equal(t, 1, starc.Catches, "caught dismissal credits fielderId1")

	assert.Equal(t, "Complete", extract.State)
	assert.Equal(t, "India won by 7 wkts", extract.Status)
}

func TestParseScorecardRunoutAttribution(t *testing.T) {
	t.Parallel()

	extract, ok := parseScorecard([]byte(twoInningsScorecard))
	require.True(t, ok)

	// Kohli's run out credits both distinct fielders once; Sharma's second
	// innings run out lists the same fielder twice and must count once.
	assert.Equal(t, 2, extract.StatsByID["202"].Runouts)
	assert.Equal(t, 1, extract.StatsByID["203"].Runouts)
}

func TestParseScorecardStringNumbers(t *testing.T) {
	t.Parallel()

	extract, ok := parseScorecard([]byte(twoInningsScorecard))
	require.True(t, ok)

	kohli := extract.StatsByID["102"]
	assert.Equal(t, 30, kohli.Runs)
	assert.Equal(t, 3, kohli.Fours)
}

func TestParseScorecardNameIndex(t *testing.T) {
	t.Parallel()

	extract, ok := parseScorecard([]byte(twoInningsScorecard))
	require.True(t, ok)

	assert.Equal(t, "RG Sharma", extract.NameByID["101"])
	assert.Equal(t, "MA Starc", extract.NameByID["201"])
	assert.Equal(t, "PJ Cummins", extract.NameByID["204"])
}

func TestParseScorecardRejectsMissingScoreCard(t *testing.T) {
	t.Parallel()

	_, ok := parseScorecard([]byte(`{"matchHeader": {"state": "Preview"}}`))
	assert.False(t, ok)

	_, ok = parseScorecard([]byte(`not json`))
	assert.False(t, ok)

	_, ok = parseScorecard(nil)
	assert.False(t, ok)
}

func TestHarvestIDNamePairsFirstSeenWins(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
      "teams": [
        {"players": [{"id": 301, "name": "First Name"}, {"playerId": "302", "playerName": "KL Rahul"}]},
        {"extra": {"id": 301, "name": "Second Name"}}
      ]
    }`)

	names := map[string]string{}
	harvestIDNamePairs(raw, names)

	assert.Equal(t, "First Name", names["301"])
	assert.Equal(t, "KL Rahul", names["302"])
}
