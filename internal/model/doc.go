// Package model holds the data types shared by the catalog, registry, session
// and navigator packages: the capability catalog (categories, methods,
// visualizations), sessions, jobs and the step navigation state.
package model
