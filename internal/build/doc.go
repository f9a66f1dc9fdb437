// Package build runs one complete site build: it seeds the shared Site from
// configuration, runs the plugin pipeline and records the outcome in the
// journal and metrics. The build and watch commands both go through Run.
package build
