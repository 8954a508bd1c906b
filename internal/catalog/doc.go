// Package catalog provides the sources of the capability catalog: the
// built-in defaults embedded in the binary and the external registry document
// published by the visualization library (over HTTP, from a file, or from a
// locally synced registry repository). It also carries the registry JSON
// schema used for drift diagnostics and semver helpers for catalog versions.
package catalog
