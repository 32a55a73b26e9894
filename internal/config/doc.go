// Package config loads, normalizes, and validates vidscribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, picks up a local .env file, and honours a few
// VIDSCRIBE_* environment overrides. Directory fields left empty are derived
// from paths.data_dir so the default layout is data/audio and
// data/transcribed_text under the working directory.
package config
