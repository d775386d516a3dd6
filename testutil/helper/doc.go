// Package helper provides test doubles and arrangement helpers shared by the tests of this module:
// spies for the observability interfaces and small builders for ids and clocks.
package helper
