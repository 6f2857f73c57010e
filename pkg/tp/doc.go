// Package tp provides the public types, errors, and query helpers for the
// Targetprocess REST API v1 client.
//
// The package defines the client-facing surface: configuration, the typed
// error taxonomy, the where-clause compiler that translates the simplified
// filter language into the Targetprocess query grammar, and the response
// cache abstraction. The concrete client implementation lives in
// internal/client and is constructed through pkg/tpclient.
package tp
