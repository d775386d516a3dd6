// Package updatesettings replaces the circulation policy of an owner.
//
// After a successful commit the handler drops the owner's cached settings, if a cache is configured.
// A failed invalidation is logged, not returned: the entry still expires with its TTL.
package updatesettings
