/*
Package listenbot is a scripted spoken-dialogue robot for outbound sales calls.

The robot greets the customer, listens to short replies of the form
"<TOPIC> <Y|N|?>" and asks a response engine what to say next, until the
engine answers with the STOP action. Every robot line and user reply is
recorded by a session tracker that can be dumped (PRINT) or exported to a
snapshot store.

# Architecture

The core is split in small packages that are wired together by Bot and the CLI:

  - pkg/domain: the closed vocabulary (topics, actions, feedback, results) and command strings.
  - pkg/classifier: maps user replies and robot commands to topics and feedback.
  - pkg/tracker: the cumulative Session State of one call.
  - pkg/controller: the GREETING, ACTIVE and STOPPED machine driving one call.
  - pkg/runner: the read-eval loop over text or NDJSON IO.
  - pkg/adapters: response engines (script, remote), snapshot stores (memory, file, redis) and the HTTP API.

# Usage

New wires a built-in script, its engine and the controller:

	bot, err := listenbot.New("house", listenbot.WithIO(os.Stdin, os.Stdout))
	if err != nil {
		log.Fatal(err)
	}
	if err := bot.Run(ctx); err != nil {
		log.Fatal(err)
	}

The packages can also be used directly:

	s, err := script.Builtin("house")
	if err != nil {
		log.Fatal(err)
	}
	ctrl := controller.New(script.NewEngine(s))

	reply, err := ctrl.Start(ctx)
	// ...
	reply, err = ctrl.Handle(ctx, "GREET Y")

See the listenbot command for the interactive terminal, the engine server
and the inspection API.
*/
package listenbot
