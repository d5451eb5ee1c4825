// Package config defines the settings shared by the eink-agent daemon and
// the einkctl CLI, with helpers to load, validate and save them in YAML.
//
// Validate fills defaults for omitted values, so a minimal settings file
// only needs the fields the operator wants to change.
package config
