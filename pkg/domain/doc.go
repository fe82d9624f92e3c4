/*
Package domain contains the core types shared by every part of the Senglish interpreter.

It defines what a command is, how handlers are shaped, how execution outcomes and
diagnostics are reported, and the events that flow between the dispatcher and the
environment. This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Command: One segment of an instruction chain, with its resolved name.
  - Handler: The capability invoked for a command name (see HandlerFunc).
  - Diagnostic: A non-fatal report emitted while registering or executing commands.
  - Outcome / Report: The result of executing one segment / one whole chain.
  - Event: An environment event (click, submit, ...) delivered to bound listeners.
*/
package domain
