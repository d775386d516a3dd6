// Package shell is the imperative shell around the pure circulation core.
//
// It holds the pieces every feature slice shares: the Command and Query contracts,
// retry with exponential backoff for optimistic concurrency conflicts, the
// HandlerResult that carries retry metadata to the observability wrappers, the
// observability helpers themselves, and the SettingsProvider that resolves the
// effective LibrarySettings of an owner.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
