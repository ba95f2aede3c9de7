/*
Package ports defines the driven ports (interfaces) of a listenbot session.

These interfaces decouple the conversation controller from the external response
engine and from the optional snapshot storage.

# Key Interfaces

  - ResponseEngine: maps a command string to rendered text or to the next robot command.
  - StateStore: exports tracker snapshots under a session ID for inspection.
*/
package ports
