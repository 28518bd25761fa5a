// Package config loads the fundraiser's server settings and campaign content.
//
// Configuration is layered: built-in defaults (the current campaign), then an
// optional YAML file, then an optional .env file and process environment
// variables. The resulting Config is read-only for the life of the process.
package config
