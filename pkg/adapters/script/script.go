// Package script implements a scripted ResponseEngine.
//
// A script lists, per topic, the text of each robot action and the rules that
// pick the next robot command for each user feedback. Scripts are YAML (or JSON)
// documents; the "house" script for real-estate sales is embedded.
package script

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed house.yaml
var houseScript []byte

var builtins = map[string][]byte{
	"house": houseScript,
}

// ErrUnknownIndustry is returned when no built-in script exists for an industry.
var ErrUnknownIndustry = errors.New("industry not available")

// Rule selects the next robot command for a user feedback.
// The n-th occurrence of the feedback uses Next[n], clamped to the last entry.
type Rule struct {
	Next   []domain.Command
	Result domain.Result
}

// Topic holds the script of a single topic.
type Topic struct {
	Actions  map[domain.Action]string
	Feedback map[domain.Feedback]Rule
}

// Script is a compiled dialogue script.
type Script struct {
	Name   string
	Topics map[domain.Topic]*Topic
}

// document is the on-disk shape. Rules accept three spellings: a single command
// string, a list of commands, or a map with "next" and "result".
type document struct {
	Name   string                   `yaml:"name" json:"name"`
	Topics map[string]topicDocument `yaml:"topics" json:"topics"`
}

type topicDocument struct {
	Actions  map[string]string `yaml:"actions" json:"actions"`
	Feedback map[string]any    `yaml:"feedback" json:"feedback"`
}

type ruleDocument struct {
	Next   []string `mapstructure:"next"`
	Result string   `mapstructure:"result"`
}

// Builtin returns the embedded script for an industry.
func Builtin(industry string) (*Script, error) {
	data, ok := builtins[industry]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndustry, industry)
	}
	return Parse(data)
}

// Industries lists the industries with an embedded script.
func Industries() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

// Load reads a script file. Files ending in .json are decoded as JSON, anything else as YAML.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return compile(doc)
	}
	return Parse(data)
}

// Parse compiles a YAML script.
func Parse(data []byte) (*Script, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return compile(doc)
}

func compile(doc document) (*Script, error) {
	s := &Script{
		Name:   doc.Name,
		Topics: make(map[domain.Topic]*Topic, len(doc.Topics)),
	}
	var errs []error
	for topicName, td := range doc.Topics {
		topic, err := domain.ParseTopic(topicName)
		if err != nil {
			errs = append(errs, fmt.Errorf("topics: %w", err))
			continue
		}
		compiled := &Topic{
			Actions:  make(map[domain.Action]string, len(td.Actions)),
			Feedback: make(map[domain.Feedback]Rule, len(td.Feedback)),
		}
		for actionName, text := range td.Actions {
			action, err := domain.ParseAction(actionName)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.actions: %w", topic, err))
				continue
			}
			compiled.Actions[action] = text
		}
		for feedbackName, raw := range td.Feedback {
			feedback, err := domain.ParseFeedback(feedbackName)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.feedback: %w", topic, err))
				continue
			}
			rule, err := decodeRule(raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.feedback.%s: %w", topic, feedback, err))
				continue
			}
			compiled.Feedback[feedback] = rule
		}
		s.Topics[topic] = compiled
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeRule(raw any) (Rule, error) {
	var rd ruleDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  ruleShorthandHook,
		ErrorUnused: true,
		Result:      &rd,
	})
	if err != nil {
		return Rule{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Rule{}, err
	}
	if len(rd.Next) == 0 {
		return Rule{}, fmt.Errorf("rule has no next command")
	}

	var rule Rule
	for _, n := range rd.Next {
		cmd, err := domain.ParseCommand(n)
		if err != nil {
			return Rule{}, err
		}
		if !cmd.IsAction() {
			return Rule{}, fmt.Errorf("%w: next %q is not an ACTION", domain.ErrMalformedCommand, n)
		}
		rule.Next = append(rule.Next, cmd)
	}
	if rd.Result != "" {
		if rule.Result, err = domain.ParseResult(rd.Result); err != nil {
			return Rule{}, err
		}
	}
	return rule, nil
}

// ruleShorthandHook expands "ACTION X Y" and ["ACTION X Y", ...] into the map form.
// A single command under "next" is accepted as well.
func ruleShorthandHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to == reflect.TypeOf([]string(nil)) && from.Kind() == reflect.String {
		return []string{reflect.ValueOf(data).String()}, nil
	}
	if to != reflect.TypeOf(ruleDocument{}) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return map[string]any{"next": []string{v}}, nil
	case []any:
		return map[string]any{"next": v}, nil
	}
	return data, nil
}

// Text returns the text of an ACTION command.
func (s *Script) Text(cmd domain.Command) (string, bool) {
	t, ok := s.Topics[cmd.Topic]
	if !ok {
		return "", false
	}
	text, ok := t.Actions[cmd.Action]
	return text, ok
}

// Rule returns the feedback rule for a FEEDBACK command.
func (s *Script) Rule(cmd domain.Command) (Rule, bool) {
	t, ok := s.Topics[cmd.Topic]
	if !ok {
		return Rule{}, false
	}
	rule, ok := t.Feedback[cmd.Feedback]
	return rule, ok
}

// Validate checks that the greeting exists and every command a rule can
// produce has text. All problems are reported together.
func (s *Script) Validate() error {
	var errs []error
	greeting := domain.ActionCommand(domain.TopicGreet, domain.ActionIntro)
	if _, ok := s.Text(greeting); !ok {
		errs = append(errs, fmt.Errorf("missing text for %q", greeting))
	}

	stops := false
	for _, topic := range domain.Topics {
		t, ok := s.Topics[topic]
		if !ok {
			continue
		}
		for feedback, rule := range t.Feedback {
			for _, next := range rule.Next {
				if _, ok := s.Text(next); !ok {
					errs = append(errs, fmt.Errorf("%s.feedback.%s: missing text for %q", topic, feedback, next))
				}
				if next.Action.IsTerminal() {
					stops = true
				}
			}
		}
		for action, text := range t.Actions {
			if strings.TrimSpace(text) == "" {
				errs = append(errs, fmt.Errorf("%s.actions.%s: empty text", topic, action))
			}
		}
	}
	if !stops {
		errs = append(errs, errors.New("no rule leads to a STOP action"))
	}
	return errors.Join(errs...)
}
