package transform

// route is the destination of one class member.
type route int

const (
	// routeBehavior places the member on the behavior object.
	routeBehavior route = iota
	// routeData places a field on the behavior object as `data`.
	routeData
	// routeDefaults reads per-property default values.
	routeDefaults
	// routeTypes reads per-property type tokens.
	routeTypes
	// routeConfig serializes a field into the JSON configuration.
	routeConfig
	// routeConfigFlatten merges an object field's keys into the JSON
	// configuration.
	routeConfigFlatten
	// routeLifecycle places a method directly on the behavior object of a
	// component.
	routeLifecycle
	// routeMethods places a method in the `methods` bucket.
	routeMethods
	// routeMarkup hands the method to the markup rewriter.
	routeMarkup
	// routeDrop removes the member with a warning.
	routeDrop
)

type memberShape int

const (
	shapeField memberShape = iota
	shapeMethod
)

type routeKey struct {
	role  Role
	shape memberShape
	name  string
}

var classRoles = []Role{RoleApp, RolePage, RoleComponent, RoleGame}

// routes is the exact-name routing table. Members absent from the table
// fall back to routeFallback.
var routes = buildRoutes()

func buildRoutes() map[routeKey]route {
	table := make(map[routeKey]route)
	add := func(roles []Role, shape memberShape, r route, names ...string) {
		for _, role := range roles {
			for _, name := range names {
				table[routeKey{role, shape, name}] = r
			}
		}
	}

	add(classRoles, shapeField, routeData, "state")
	add(classRoles, shapeMethod, routeMarkup, "render")
	add(classRoles, shapeMethod, routeDrop, "constructor")

	add([]Role{RoleComponent}, shapeField, routeDefaults, "defaultProps")
	add([]Role{RoleComponent}, shapeField, routeTypes, "propTypes")
	add([]Role{RoleComponent}, shapeMethod, routeLifecycle,
		"created", "attached", "ready", "moved", "detached")

	add([]Role{RoleApp}, shapeField, routeConfig,
		"window", "tabBar", "networkTimeout", "debug")

	add([]Role{RolePage}, shapeField, routeConfigFlatten, "window")
	add([]Role{RolePage}, shapeField, routeConfig,
		"navigationBarBackgroundColor", "navigationBarTextStyle",
		"navigationBarTitleText", "backgroundColor", "backgroundTextStyle",
		"enablePullDownRefresh", "disableScroll", "onReachBottomDistance")

	add([]Role{RoleGame}, shapeField, routeConfig,
		"deviceOrientation", "showStatusBar", "networkTimeout", "workers")

	return table
}

// routeMember returns the destination of a member on a module of the
// given role.
func routeMember(role Role, shape memberShape, name string) route {
	if r, ok := routes[routeKey{role, shape, name}]; ok {
		return r
	}
	if shape == shapeMethod && role == RoleComponent {
		return routeMethods
	}
	return routeBehavior
}

// propTypeTokens maps PropTypes members to platform property types.
var propTypeTokens = map[string]string{
	"string": "String",
	"number": "Number",
	"bool":   "Boolean",
	"object": "Object",
	"array":  "Array",
}

// attrDirectives are markup attributes that take the `wx:` prefix.
var attrDirectives = map[string]bool{
	"if":        true,
	"elif":      true,
	"else":      true,
	"for":       true,
	"key":       true,
	"for-index": true,
	"for-item":  true,
}

// styleTags are the tagged-template names that declare stylesheets.
var styleTags = map[string]bool{
	"WXSS": true,
	"CSS":  true,
}
