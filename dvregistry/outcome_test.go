package dvregistry_test

import (
	"encoding/json"
	"testing"

	"github.com/gordian-engine/gdelegate/dvregistry"
	"github.com/stretchr/testify/require"
)

func TestParseOutcome(t *testing.T) {
	t.Parallel()

	for _, o := range dvregistry.Outcomes() {
		got, err := dvregistry.ParseOutcome(o.String())
		require.NoError(t, err)
		require.Equal(t, o, got)
	}

	_, err := dvregistry.ParseOutcome("YES")
	require.ErrorIs(t, err, dvregistry.ErrInvalidOutcome)

	require.False(t, dvregistry.Outcome(dvregistry.NumOutcomes).Valid())
}

func TestOutcome_jsonMapKey(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(map[dvregistry.Outcome]float64{dvregistry.OutcomeYes: 1.5})
	require.NoError(t, err)
	require.JSONEq(t, `{"yes":1.5}`, string(b))

	var m map[dvregistry.Outcome]float64
	require.NoError(t, json.Unmarshal([]byte(`{"no":2}`), &m))
	require.Equal(t, 2.0, m[dvregistry.OutcomeNo])

	require.Error(t, json.Unmarshal([]byte(`{"abstain":2}`), &m))
}
