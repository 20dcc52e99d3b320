// Package config loads settings from an optional .env file, an optional
// YAML file and CARDS_* environment variables, and validates the result
// before anything else starts.
package config
