package middleware

import (
	"fmt"

	"github.com/randalmurphal/eventmap/pkg/eventmap/config"
)

// FromConfig builds a stack from the middleware section of cfg:
//
//	middleware:
//	  groups:   {global: [...], web: [...]}
//	  aliases:  {auth: app.Authenticate}
//	  priority: [session, auth]
//	  disabled: false
func FromConfig(cfg config.Config, opts ...Option) (*Stack, error) {
	s := New(opts...)
	mw := cfg.Sub("middleware")

	if mw.Has("groups") {
		groups := mw.StringSliceMap("groups", nil)
		if groups == nil {
			return nil, fmt.Errorf("middleware.groups: expected a map of string lists")
		}
		if err := s.SetGroups(groups); err != nil {
			return nil, err
		}
	}

	if mw.Has("aliases") {
		aliases := mw.StringMap("aliases", nil)
		if aliases == nil {
			return nil, fmt.Errorf("middleware.aliases: expected a map of strings")
		}
		for alias, id := range aliases {
			if err := s.Alias(alias, id); err != nil {
				return nil, err
			}
		}
	}

	if mw.Has("priority") {
		priority := mw.StringSlice("priority", nil)
		if priority == nil {
			return nil, fmt.Errorf("middleware.priority: expected a list of strings")
		}
		if err := s.SetPriority(priority...); err != nil {
			return nil, err
		}
	}

	if mw.Bool("disabled", false) {
		s.DisableAllMiddleware()
	}
	return s, nil
}
