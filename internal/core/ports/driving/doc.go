// Package driving defines the interfaces through which the outside
// world (CLI, schedule daemon) invokes the core.
package driving
