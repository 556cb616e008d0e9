// Package config loads, defaults, validates, and watches the backend
// configuration.
//
// Configuration comes from a YAML file with SPARK_* environment
// variables taking precedence, so container deployments can run without
// any file at all. A fsnotify-based watcher re-parses the file on change
// and keeps the previous configuration when the new one fails
// validation.
package config
