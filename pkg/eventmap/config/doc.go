/*
Package config loads eventmap configuration from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or has the wrong type. Keys are dotted paths
into nested sections, which matches how the kernel reads its settings:

	middleware:
	  groups:
	    global: [trim_strings]
	    web: [session, csrf]
	  aliases:
	    auth: app.Authenticate
	  priority: [session, auth, csrf]
	  disabled: false
	events:
	  journal: sqlite:./events.db

# Basic Usage

	cfg, err := config.FromFile("eventmap.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	groups := cfg.StringSliceMap("middleware.groups", nil)
	priority := cfg.StringSlice("middleware.priority", nil)
	journal := cfg.String("events.journal", "")

Sub returns a nested section as its own Config:

	mw := cfg.Sub("middleware")
	aliases := mw.StringMap("aliases", nil)

# Layering

FromFile replaces ${VAR} with environment values. FromFiles merges several
files, so a checked-in base can be overridden locally:

	cfg, err := config.FromFiles("eventmap.yaml", "eventmap.local.yaml")

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation; Merge builds a new one.
*/
package config
