// Command circulationd serves the library circulation HTTP API.
//
// Without arguments it runs the server configured from the environment (see config.Load).
// The "token" subcommand prints a signed bearer token for local use:
//
//	circulationd token -owner <uuid> -role Library -actor librarian@example.org
package main
