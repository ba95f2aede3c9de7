// Package graph renders dialogue scripts as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/listenbot/pkg/adapters/script"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/tracker"
)

// Overlay contains session data to visualize on the graph.
type Overlay struct {
	// Visited holds ACTION command strings in the order they were said.
	Visited []string
	Current string
}

// OverlayFromState marks the actions of a session snapshot.
func OverlayFromState(s *tracker.State) *Overlay {
	o := &Overlay{Visited: append([]string(nil), s.ActionHistory...)}
	if n := len(s.ActionHistory); n > 0 {
		o.Current = s.ActionHistory[n-1]
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart with one subgraph per topic.
// It applies semantic styling:
// - Greeting: ((Circle))
// - Redeem: [[Subroutine]]
// - Stop: ([Stadium])
// - Default: [Rectangle]
// Edges follow the feedback rules; the n-th entry of a rule chains from the (n-1)-th
// when both are on the same topic.
func GenerateMermaid(s *script.Script, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, topic := range domain.Topics {
		t, ok := s.Topics[topic]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "    subgraph %s\n", topic)
		for a := domain.ActionIntro; a <= domain.ActionStop; a++ {
			if _, ok := t.Actions[a]; !ok {
				continue
			}
			cmd := domain.ActionCommand(topic, a)
			opener, closer := shape(cmd)
			fmt.Fprintf(&sb, "        %s%s\"%s %s\"%s\n", nodeID(cmd), opener, topic, a, closer)
		}
		sb.WriteString("    end\n")
	}

	for _, topic := range domain.Topics {
		t, ok := s.Topics[topic]
		if !ok {
			continue
		}
		for f := domain.FeedbackAsk; f <= domain.FeedbackUnclear; f++ {
			rule, ok := t.Feedback[f]
			if !ok {
				continue
			}
			from := domain.ActionCommand(topic, domain.ActionIntro)
			for i, next := range rule.Next {
				label := feedbackLabel(f)
				if len(rule.Next) > 1 {
					label = fmt.Sprintf("%s #%d", label, i+1)
				}
				if i == len(rule.Next)-1 && rule.Result != domain.ResultNone {
					label += " " + rule.Result.String()
				}
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(from), label, nodeID(next))
				if next.Topic == topic {
					from = next
				}
			}
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, raw := range overlay.Visited {
			cmd, err := domain.ParseCommand(raw)
			if err != nil || !cmd.IsAction() || seen[nodeID(cmd)] {
				continue
			}
			seen[nodeID(cmd)] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(cmd))
		}
		if cmd, err := domain.ParseCommand(overlay.Current); err == nil && cmd.IsAction() {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(cmd))
		}
	}

	return sb.String()
}

func shape(cmd domain.Command) (string, string) {
	switch {
	case cmd.Topic == domain.TopicGreet && cmd.Action == domain.ActionIntro:
		return "((", "))"
	case cmd.Action.IsTerminal():
		return "([", "])"
	case cmd.Action.IsRedeem():
		return "[[", "]]"
	}
	return "[", "]"
}

func nodeID(cmd domain.Command) string {
	return fmt.Sprintf("%s_%s", cmd.Topic, cmd.Action)
}

func feedbackLabel(f domain.Feedback) string {
	switch f {
	case domain.FeedbackPositive:
		return "Y"
	case domain.FeedbackNegative:
		return "N"
	case domain.FeedbackUnclear:
		return "?"
	}
	return f.String()
}
