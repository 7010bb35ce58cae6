package middleware

import "strings"

// Well-known group names.
const (
	GroupGlobal = "global"
	GroupWeb    = "web"
	GroupAdmin  = "admin"
	GroupAjax   = "ajax"
)

// Blueprint is a resolved middleware reference: an id plus the arguments
// given after a colon ("can:edit-posts,publish").
type Blueprint struct {
	ID   string
	Args []string
}

// Parse splits a reference into id and comma separated arguments.
func Parse(ref string) Blueprint {
	id, rawArgs, ok := strings.Cut(ref, ":")
	b := Blueprint{ID: strings.TrimSpace(id)}
	if !ok || strings.TrimSpace(rawArgs) == "" {
		return b
	}
	for _, arg := range strings.Split(rawArgs, ",") {
		b.Args = append(b.Args, strings.TrimSpace(arg))
	}
	return b
}

// String formats the blueprint back into reference form.
func (b Blueprint) String() string {
	if len(b.Args) == 0 {
		return b.ID
	}
	return b.ID + ":" + strings.Join(b.Args, ",")
}

// Route is anything that declares middleware.
type Route interface {
	Name() string
	Middleware() []string
}

// RouteSpec is a plain Route.
type RouteSpec struct {
	RouteName       string
	MiddlewareNames []string
}

// Name implements Route.
func (r RouteSpec) Name() string { return r.RouteName }

// Middleware implements Route.
func (r RouteSpec) Middleware() []string { return r.MiddlewareNames }
