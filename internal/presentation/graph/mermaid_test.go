package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/listenbot/internal/presentation/graph"
	"github.com/aretw0/listenbot/pkg/adapters/script"
	"github.com/aretw0/listenbot/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func house(t *testing.T) *script.Script {
	t.Helper()
	s, err := script.Builtin("house")
	require.NoError(t, err)
	return s
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(house(t), nil)

	tests := []struct {
		name     string
		contains []string
	}{
		{"Header", []string{"graph TD\n"}},
		{"Subgraphs", []string{"    subgraph GREET\n", "    subgraph RESULT\n", "    end\n"}},
		{"Greeting Shape", []string{`GREET_INTRO(("GREET INTRO"))`}},
		{"Redeem Shape", []string{`PRICE_FIRST_REDEEM[["PRICE FIRST_REDEEM"]]`}},
		{"Stop Shape", []string{`RESULT_STOP(["RESULT STOP"])`}},
		{"Default Shape", []string{`LOCATION_ANSWER["LOCATION ANSWER"]`}},
		{"Escalation", []string{
			`GREET_INTRO -- "N #1" --> GREET_FIRST_REDEEM`,
			`GREET_FIRST_REDEEM -- "N #2" --> GREET_SECOND_REDEEM`,
			`GREET_SECOND_REDEEM -- "N #3" --> RESULT_STOP`,
		}},
		{"Topic Change", []string{`GREET_INTRO -- "Y" --> PRICE_INTRO`}},
		{"Result", []string{`RESULT_INTRO -- "Y APPOINT" --> RESULT_STOP`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION GREET INTRO", "Hello", false))
	require.NoError(t, tr.Update("FEEDBACK GREET NEGATIVE", "GREET N", false))
	require.NoError(t, tr.Update("ACTION GREET FIRST_REDEEM", "One minute?", false))
	require.NoError(t, tr.Update("ACTION GREET FIRST_REDEEM", "One minute?", true))

	out := graph.GenerateMermaid(house(t), graph.OverlayFromState(tr.State()))

	assert.Contains(t, out, "classDef visited")
	assert.Equal(t, 1, strings.Count(out, "class GREET_FIRST_REDEEM visited;"))
	assert.Contains(t, out, "class GREET_INTRO visited;")
	assert.Contains(t, out, "class GREET_FIRST_REDEEM current;")
}

func TestOverlayFromState_Empty(t *testing.T) {
	o := graph.OverlayFromState(tracker.NewState())
	assert.Empty(t, o.Visited)
	assert.Empty(t, o.Current)
}
