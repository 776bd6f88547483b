package mvc

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/contoso/university/internal/utils/middleware"
	"github.com/gin-gonic/gin"
)

const (
	endpointKey    = "mvc.endpoint"
	routeValuesKey = "mvc.route_values"
	routerKey      = "mvc.router"
)

// Endpoint is a controller action reachable through the conventional route.
type Endpoint struct {
	Controller string
	Action     string
	Method     string
	Handler    gin.HandlerFunc
	// Roles lists the roles of which the caller needs at least one. Empty
	// means anonymous access.
	Roles []string
}

// Name returns "Controller/Action".
func (e *Endpoint) Name() string {
	return e.Controller + "/" + e.Action
}

// EndpointOption configures an Endpoint at registration.
type EndpointOption func(*Endpoint)

// RequireRoles restricts an endpoint to callers holding one of roles.
func RequireRoles(roles ...string) EndpointOption {
	return func(e *Endpoint) {
		e.Roles = append(e.Roles, roles...)
	}
}

// Router dispatches requests that no explicit gin route handles to controller
// actions through a route template.
type Router struct {
	template  *Template
	endpoints map[string]map[string]*Endpoint // "controller/action" -> method -> endpoint
	notFound  gin.HandlerFunc
}

// NewRouter creates a router for pattern.
func NewRouter(pattern string) (*Router, error) {
	t, err := ParseTemplate(pattern)
	if err != nil {
		return nil, err
	}
	return &Router{
		template:  t,
		endpoints: map[string]map[string]*Endpoint{},
		notFound: func(c *gin.Context) {
			c.String(http.StatusNotFound, "404 page not found")
		},
	}, nil
}

// Template returns the route template.
func (r *Router) Template() *Template {
	return r.template
}

// NotFound sets the handler for requests that match no endpoint.
func (r *Router) NotFound(h gin.HandlerFunc) {
	r.notFound = h
}

func endpointID(controller, action string) string {
	return strings.ToLower(controller) + "/" + strings.ToLower(action)
}

// Handle registers h for method on controller/action.
func (r *Router) Handle(method, controller, action string, h gin.HandlerFunc, opts ...EndpointOption) {
	id := endpointID(controller, action)
	byMethod, ok := r.endpoints[id]
	if !ok {
		byMethod = map[string]*Endpoint{}
		r.endpoints[id] = byMethod
	}
	if _, dup := byMethod[method]; dup {
		panic(fmt.Sprintf("mvc: %s %s/%s registered twice", method, controller, action))
	}

	e := &Endpoint{Controller: controller, Action: action, Method: method, Handler: h}
	for _, opt := range opts {
		opt(e)
	}
	byMethod[method] = e
}

// GET registers a GET action.
func (r *Router) GET(controller, action string, h gin.HandlerFunc, opts ...EndpointOption) {
	r.Handle(http.MethodGet, controller, action, h, opts...)
}

// POST registers a POST action.
func (r *Router) POST(controller, action string, h gin.HandlerFunc, opts ...EndpointOption) {
	r.Handle(http.MethodPost, controller, action, h, opts...)
}

// Endpoints lists the registered endpoints sorted by name and method.
func (r *Router) Endpoints() []*Endpoint {
	var all []*Endpoint
	for _, byMethod := range r.endpoints {
		for _, e := range byMethod {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name() != all[j].Name() {
			return all[i].Name() < all[j].Name()
		}
		return all[i].Method < all[j].Method
	})
	return all
}

// Match resolves method and path to an endpoint. HEAD falls back to GET.
func (r *Router) Match(method, path string) (*Endpoint, RouteValues, bool) {
	values, ok := r.template.Match(path)
	if !ok {
		return nil, nil, false
	}

	byMethod, ok := r.endpoints[endpointID(values["controller"], values["action"])]
	if !ok {
		return nil, nil, false
	}
	e, ok := byMethod[method]
	if !ok && method == http.MethodHead {
		e, ok = byMethod[http.MethodGet]
	}
	if !ok {
		return nil, nil, false
	}
	return e, values, true
}

// Routing returns the routing stage. It resolves the endpoint for requests
// that no explicit gin route matched and stores it for later stages.
func (r *Router) Routing() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "" {
			if e, values, ok := r.Match(c.Request.Method, c.Request.URL.Path); ok {
				r.bind(c, e, values)
			}
		}
		c.Next()
	}
}

func (r *Router) bind(c *gin.Context, e *Endpoint, values RouteValues) {
	c.Set(routerKey, r)
	c.Set(endpointKey, e)
	c.Set(routeValuesKey, values)
	c.Set(middleware.RouteKey, e.Name())
}

// Dispatch returns the endpoint execution stage, installed as the gin
// NoRoute handler so it runs after every global middleware.
func (r *Router) Dispatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		e := CurrentEndpoint(c)
		if e == nil {
			r.notFound(c)
			return
		}
		e.Handler(c)
	}
}

// Execute runs the GET endpoint for path on c, bypassing the pipeline. It
// reports false when no endpoint matches.
func (r *Router) Execute(c *gin.Context, path string) bool {
	e, values, ok := r.Match(http.MethodGet, path)
	if !ok {
		return false
	}
	r.bind(c, e, values)
	e.Handler(c)
	return true
}

// URL builds a link to controller/action. pairs are key/value pairs; keys
// that are route parameters (such as "id") fill the path, the rest become
// the query string. Empty values are dropped.
func (r *Router) URL(controller, action string, pairs ...any) string {
	values := RouteValues{"controller": controller, "action": action}
	for i := 0; i+1 < len(pairs); i += 2 {
		key := fmt.Sprint(pairs[i])
		if v := fmt.Sprint(pairs[i+1]); v != "" && pairs[i+1] != nil {
			values[key] = v
		}
	}

	link, err := r.template.Link(values)
	if err != nil {
		return "/" + url.PathEscape(controller) + "/" + url.PathEscape(action)
	}
	return link
}

// Funcs exposes URL to views as "url".
func (r *Router) Funcs() template.FuncMap {
	return template.FuncMap{"url": r.URL}
}

var fallbackRouter = &Router{template: MustParseTemplate(DefaultRoutePattern)}

// RouterFrom returns the router that dispatched c. Outside a dispatched
// request it returns a router for DefaultRoutePattern without endpoints,
// which still builds links.
func RouterFrom(c *gin.Context) *Router {
	if v, ok := c.Get(routerKey); ok {
		if r, ok := v.(*Router); ok {
			return r
		}
	}
	return fallbackRouter
}

// CurrentEndpoint returns the endpoint resolved by routing, or nil.
func CurrentEndpoint(c *gin.Context) *Endpoint {
	v, ok := c.Get(endpointKey)
	if !ok {
		return nil
	}
	e, _ := v.(*Endpoint)
	return e
}

// RouteValue returns a route value captured for the current request.
func RouteValue(c *gin.Context, name string) string {
	v, ok := c.Get(routeValuesKey)
	if !ok {
		return ""
	}
	values, _ := v.(RouteValues)
	return values[name]
}

// ID parses the "id" route value.
func ID(c *gin.Context) (int, bool) {
	raw := RouteValue(c, "id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
