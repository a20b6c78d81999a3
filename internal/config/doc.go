// Package config loads and validates wayfarer.json, the declarative
// project configuration: the route table, translation options, server
// bind settings, and snapshot storage backend.
package config
