// Package addbook adds a title to an owner's catalog.
package addbook
