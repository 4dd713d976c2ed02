// Package driven defines the interfaces the core depends on.
// Adapters (HTTP clients, storage, config) implement these.
package driven
