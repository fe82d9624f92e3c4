/*
Package runner implements the interactive read-eval loop for a Senglish interpreter.

It acts as the bridge between the interpreter and the outside world: a handler
reads instructions and presents reports, interceptors sanitize or rewrite each
instruction before it runs, and OS signals interrupt a long chain without killing
the session.

# Key Components

  - Runner: The loop. It stops on EOF, on "exit"/"quit", or when its context ends.
  - IOHandler: Decouples how instructions arrive and how reports are shown.
  - TextHandler: Interactive, prompt-driven terminal IO.
  - JSONHandler: JSON-Lines IO for scripted hosts.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithInterceptor(runner.SanitizeInterceptor(0)),
	)

	if err := r.Run(ctx, interpreter); err != nil {
		log.Fatal(err)
	}
*/
package runner
