// Package config loads, validates and initialises chronicle.yaml.
//
// Loading reads optional .env/.env.local files first, expands ${VAR}
// references in the raw YAML, then decodes over Default() so that fields
// absent from the file keep their defaults.
package config
