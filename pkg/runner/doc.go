/*
Package runner implements the read-eval loop of a listen-robot session.

It is the bridge between the conversation controller and the outside world:
it prints robot replies, reads user replies through pluggable handlers,
serves the PRINT diagnostic and exports tracker snapshots after every turn.

# Key Components

  - Runner: drives a controller from greeting to STOP, interrupt or end of input.
  - IOHandler: decouples how replies are read and printed (text, JSON).
  - TextHandler: interactive terminal I/O with the 🤖 / 📞 speaker tags.
  - JSONHandler: NDJSON I/O for headless drivers; bad lines are reported and skipped.
  - CleanReply: size, encoding and control-character checks on user replies.
  - WatchInterrupts: SIGINT/SIGTERM cancellation recorded as the context cause.

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("call-1"),
		runner.WithStore(store),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdout, runner.WithStdin())),
	)

	if err := r.Run(ctx, ctrl); err != nil {
		log.Fatal(err)
	}
*/
package runner
