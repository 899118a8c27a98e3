// Package config provides environment-based configuration.
//
// Loads from process environment (main loads a .env file via godotenv first),
// validates required fields, and parses typed values with defaults.
package config
