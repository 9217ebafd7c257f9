// Package factory provides a small generic registry used to build pluggable
// modules from configuration. A module is named by a type string and carries
// a raw settings map; factories decode the settings into typed structs and
// return the concrete implementation. Metrics sinks are wired this way.
package factory
