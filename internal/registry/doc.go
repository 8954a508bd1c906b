// Package registry resolves the capability catalog for the client. A
// Resolver serves the built-in defaults until the external visualization
// registry has been loaded, adopts that registry wholesale when it loads, and
// keeps the previous catalog when it does not. Resolution is single-flight:
// every caller arriving during an attempt shares its outcome.
package registry
