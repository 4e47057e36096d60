// Package config loads relay configuration from environment variables using
// kelseyhightower/envconfig. Every field has a default, so an empty
// environment yields a working local relay on 127.0.0.1:8000.
package config
