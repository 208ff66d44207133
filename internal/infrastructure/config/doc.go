// Package config loads and validates the Bookmarkd configuration.
//
// Configuration is read from a YAML file, overlaid with environment
// variable overrides (BOOKMARKD_*), and validated before use. Secrets
// such as the JWT signing keys should always come from the environment
// in production deployments.
package config
