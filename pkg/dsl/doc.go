/*
Package dsl provides a fluent builder for dialogue scripts.

It is an alternative to YAML script files when a script is generated or
written inline, for example in tests:

	s, err := dsl.New("demo").
		Topic(domain.TopicGreet).
		Say(domain.ActionIntro, "Hello! Do you have a minute?").
		On(domain.FeedbackPositive, "ACTION RESULT STOP").
		On(domain.FeedbackNegative, "ACTION RESULT STOP").
		Result(domain.FeedbackPositive, domain.ResultContact).
		Topic(domain.TopicResult).
		Say(domain.ActionStop, "Goodbye!").
		Build()

	engine := script.NewEngine(s)
*/
package dsl
