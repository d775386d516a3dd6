// Package config loads the circulation service configuration from the environment
// and builds the connections and providers that depend on it.
//
// Load reads an optional .env file first; variables already set in the environment win.
// Every setting has a default that works against a local Postgres and Redis.
package config
