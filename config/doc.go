// Package config loads the hierarchical configuration tree consumed by the
// httpfactory section binder.
//
// The tree uses ":" as its key delimiter so that section paths follow the
// "HttpClient:{clientName}:{sectionName}" convention. Load searches standard
// locations for a config.yml and a .env file, overlays environment
// variables, and returns the assembled tree.
package config
