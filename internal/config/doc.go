// Package config defines the application configuration structures and the
// viper-based loading logic that populates them from the environment.
package config
