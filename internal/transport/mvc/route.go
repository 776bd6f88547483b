// Package mvc implements conventional controller/action routing on top of gin
// and the request pipeline stages around it.
package mvc

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultRoutePattern is the conventional route of the application.
const DefaultRoutePattern = "{controller=Home}/{action=Index}/{id?}"

// RouteValues holds the values captured by a route template.
type RouteValues map[string]string

// segment is one "/"-separated part of a route template.
type segment struct {
	literal  string
	param    string
	def      string
	optional bool
}

func (s segment) isParam() bool { return s.param != "" }

// Template is a parsed route template such as "{controller=Home}/{action=Index}/{id?}".
type Template struct {
	pattern  string
	segments []segment
}

// ParseTemplate parses a route template.
func ParseTemplate(pattern string) (*Template, error) {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil, errors.New("route template is empty")
	}

	t := &Template{pattern: pattern}
	seen := map[string]bool{}
	for _, part := range strings.Split(trimmed, "/") {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("route template %q: %w", pattern, err)
		}
		if seg.isParam() {
			if seen[seg.param] {
				return nil, fmt.Errorf("route template %q: duplicate parameter %q", pattern, seg.param)
			}
			seen[seg.param] = true
		}
		t.segments = append(t.segments, seg)
	}

	// Once a segment may be omitted, every later one must be omissible too.
	omissible := false
	for _, seg := range t.segments {
		canOmit := seg.optional || seg.def != ""
		if omissible && !canOmit {
			return nil, fmt.Errorf("route template %q: required segment after optional one", pattern)
		}
		omissible = omissible || canOmit
	}
	return t, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(pattern string) *Template {
	t, err := ParseTemplate(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

func parseSegment(part string) (segment, error) {
	if part == "" {
		return segment{}, errors.New("empty segment")
	}
	if !strings.HasPrefix(part, "{") {
		if strings.ContainsAny(part, "{}") {
			return segment{}, fmt.Errorf("malformed segment %q", part)
		}
		return segment{literal: part}, nil
	}
	if !strings.HasSuffix(part, "}") {
		return segment{}, fmt.Errorf("malformed segment %q", part)
	}

	body := part[1 : len(part)-1]
	var seg segment
	switch {
	case strings.HasSuffix(body, "?"):
		seg.param = strings.TrimSuffix(body, "?")
		seg.optional = true
	case strings.Contains(body, "="):
		seg.param, seg.def, _ = strings.Cut(body, "=")
	default:
		seg.param = body
	}
	if seg.param == "" || strings.ContainsAny(seg.param, "{}=?") {
		return segment{}, fmt.Errorf("malformed segment %q", part)
	}
	return seg, nil
}

// String returns the pattern the template was parsed from.
func (t *Template) String() string {
	return t.pattern
}

// Match matches a request path against the template and returns the route
// values, defaults included. Literal and parameter names compare
// case-insensitively.
func (t *Template) Match(path string) (RouteValues, bool) {
	trimmed := strings.Trim(path, "/")
	var parts []string
	if trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}
	if len(parts) > len(t.segments) {
		return nil, false
	}

	values := RouteValues{}
	for i, seg := range t.segments {
		if i < len(parts) {
			part, err := url.PathUnescape(parts[i])
			if err != nil || part == "" {
				return nil, false
			}
			if !seg.isParam() {
				if !strings.EqualFold(part, seg.literal) {
					return nil, false
				}
				continue
			}
			values[seg.param] = part
			continue
		}

		switch {
		case !seg.isParam():
			return nil, false
		case seg.def != "":
			values[seg.param] = seg.def
		case seg.optional:
		default:
			return nil, false
		}
	}
	return values, true
}

// Link builds the shortest path that matches values. Trailing segments equal
// to their defaults are dropped, so Home/Index links to "/". Values that are
// not template parameters become the query string.
func (t *Template) Link(values RouteValues) (string, error) {
	parts := make([]string, 0, len(t.segments))
	used := map[string]bool{}
	// lastRequired is the index of the last segment that cannot be dropped.
	lastRequired := -1

	for i, seg := range t.segments {
		if !seg.isParam() {
			parts = append(parts, seg.literal)
			lastRequired = i
			continue
		}

		used[seg.param] = true
		v := values[seg.param]
		switch {
		case v == "" && seg.def != "":
			v = seg.def
		case v == "" && seg.optional:
			// Nothing after an omitted optional segment can be emitted.
			for _, rest := range t.segments[i+1:] {
				if rest.isParam() && values[rest.param] != "" {
					return "", fmt.Errorf("route value %q requires %q", rest.param, seg.param)
				}
				if rest.isParam() {
					used[rest.param] = true
				}
			}
			return t.finish(parts[:lastRequired+1], values, used), nil
		case v == "":
			return "", fmt.Errorf("missing route value %q", seg.param)
		}

		parts = append(parts, url.PathEscape(v))
		if seg.def == "" || !strings.EqualFold(v, seg.def) {
			lastRequired = i
		}
	}
	return t.finish(parts[:lastRequired+1], values, used), nil
}

func (t *Template) finish(parts []string, values RouteValues, used map[string]bool) string {
	path := "/" + strings.Join(parts, "/")

	query := url.Values{}
	for k, v := range values {
		if !used[k] && v != "" {
			query.Set(k, v)
		}
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path
}
