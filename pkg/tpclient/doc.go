// Package tpclient provides the entry point for creating Targetprocess API
// clients.
package tpclient
