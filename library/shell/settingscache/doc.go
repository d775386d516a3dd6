// Package settingscache puts a Redis read-through cache in front of the library settings store.
//
// Both stored settings and the absence of settings are cached, so owners running on the
// defaults do not hit the database on every command. Redis failures degrade to the store.
package settingscache
