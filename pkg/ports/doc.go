/*
Package ports defines the driven ports (interfaces) of the Senglish interpreter.

These interfaces decouple the command handlers and the dispatcher from concrete
implementations, so the same vocabulary can drive an in-memory document, a remote
state store, or a fake in tests.

# Key Interfaces

  - Environment / Element: The addressable node tree mutated by commands.
  - StateBag: The shared key/value bag written by commands that persist data.
  - Fetcher: Retrieves JSON documents for the fetch command.
  - DistributedLocker: Serializes access to a session across replicas.
*/
package ports
