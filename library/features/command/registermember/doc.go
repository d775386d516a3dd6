// Package registermember registers a member who may then check out books.
package registermember
