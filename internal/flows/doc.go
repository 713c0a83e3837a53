// Package flows contains the token lifecycle orchestration behind the root
// Engine: login, authenticate, refresh, and logout transitions.
//
// Each flow is a pure function over a deps struct of injected callbacks and
// sentinel errors, so the root package controls construction and error
// mapping while flows stay free of redis, database, and config imports.
// Failures are classified into flow-local kinds; the root package maps them
// to its public error taxonomy.
package flows
