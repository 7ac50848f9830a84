package encoding

import (
	"encoding/json"
	"html"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danmuck/devkit/internal/tools"
)

const (
	URLID  = "encoding.url"
	HTMLID = "encoding.html"
	JWTID  = "encoding.jwt"
)

// URL percent-encodes text and splits URLs into their components.
type URL struct{}

func (URL) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          URLID,
		Name:        "URL encoder",
		Category:    Category,
		Description: "Percent-encode or decode text and break URLs into parts",
	}
}

func (URL) Operations() []tools.OperationSpec {
	mode := tools.ArgSpec{Name: "mode", Description: "component|query (query encodes spaces as '+')", Default: "component"}
	return []tools.OperationSpec{
		{Name: "encode", Description: "percent-encode text", Args: []tools.ArgSpec{inputArg, mode}},
		{Name: "decode", Description: "percent-decode text", Args: []tools.ArgSpec{inputArg, mode}},
		{Name: "parse", Description: "split a URL into scheme, host, path and query", Args: []tools.ArgSpec{inputArg}},
	}
}

func (u URL) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "encode":
		mode, err := tools.Choice(args, "mode", "component", "component", "query")
		if err != nil {
			return tools.Run("", err)
		}
		if mode == "query" {
			return tools.Run(url.QueryEscape(tools.Input(args)), nil)
		}
		return tools.Run(escapeComponent(tools.Input(args)), nil)
	case "decode":
		mode, err := tools.Choice(args, "mode", "component", "component", "query")
		if err != nil {
			return tools.Run("", err)
		}
		unescape := url.PathUnescape
		if mode == "query" {
			unescape = url.QueryUnescape
		}
		out, err := unescape(tools.Input(args))
		if err != nil {
			return tools.Run("", tools.Invalid("%v", err))
		}
		return tools.Run(out, nil)
	case "parse":
		return tools.Run(u.parse(strings.TrimSpace(tools.Input(args))))
	default:
		return tools.UnknownAction(URLID, action)
	}
}

// escapeComponent leaves only the unreserved set (A-Z a-z 0-9 - _ . ~) as is,
// so the result is safe inside a query value or a path segment.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (URL) parse(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", tools.Invalid("%v", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", tools.Invalid("%q is not an absolute URL", raw)
	}
	fields := []tools.Field{
		tools.F("scheme", parsed.Scheme),
		tools.F("host", parsed.Hostname()),
	}
	if port := parsed.Port(); port != "" {
		fields = append(fields, tools.F("port", port))
	}
	if parsed.User != nil {
		fields = append(fields, tools.F("username", parsed.User.Username()))
		if _, ok := parsed.User.Password(); ok {
			fields = append(fields, tools.F("password", "(set)"))
		}
	}
	fields = append(fields, tools.F("path", parsed.EscapedPath()))
	if parsed.Fragment != "" {
		fields = append(fields, tools.F("fragment", parsed.Fragment))
	}

	query := parsed.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range query[k] {
			fields = append(fields, tools.F("query."+k, v))
		}
	}
	return tools.RenderFields(fields), nil
}

// HTML escapes and unescapes HTML entities.
type HTML struct{}

func (HTML) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          HTMLID,
		Name:        "HTML entities",
		Category:    Category,
		Description: "Escape or unescape HTML special characters and entities",
	}
}

func (HTML) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "escape", Description: "replace <, >, &, ' and \" with entities", Args: []tools.ArgSpec{inputArg}},
		{Name: "unescape", Description: "resolve named and numeric entities", Args: []tools.ArgSpec{inputArg}},
	}
}

func (HTML) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "escape":
		return tools.Run(html.EscapeString(tools.Input(args)), nil)
	case "unescape":
		return tools.Run(html.UnescapeString(tools.Input(args)), nil)
	default:
		return tools.UnknownAction(HTMLID, action)
	}
}

// JWT decodes a token without verifying its signature.
type JWT struct{}

func (JWT) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          JWTID,
		Name:        "JWT decoder",
		Category:    Category,
		Description: "Decode a JSON Web Token's header and claims (signature is not verified)",
	}
}

func (JWT) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "decode", Description: "show header, claims and registered time claims", Args: []tools.ArgSpec{inputArg}},
	}
}

func (j JWT) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "decode":
		return tools.Run(j.decode(strings.TrimSpace(tools.Input(args))))
	default:
		return tools.UnknownAction(JWTID, action)
	}
}

func (JWT) decode(raw string) (string, error) {
	raw = strings.TrimPrefix(raw, "Bearer ")
	claims := jwt.MapClaims{}
	token, parts, err := jwt.NewParser().ParseUnverified(raw, claims)
	if err != nil {
		return "", tools.Invalid("not a valid JWT: %v", err)
	}

	header, err := json.MarshalIndent(token.Header, "", "  ")
	if err != nil {
		return "", err
	}
	payload, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("header:\n")
	b.Write(header)
	b.WriteString("\nclaims:\n")
	b.Write(payload)
	b.WriteString("\n")

	var times []tools.Field
	for _, c := range []struct {
		name string
		get  func() (*jwt.NumericDate, error)
	}{
		{"issued_at", claims.GetIssuedAt},
		{"not_before", claims.GetNotBefore},
		{"expires_at", claims.GetExpirationTime},
	} {
		v, err := c.get()
		if err != nil || v == nil {
			continue
		}
		times = append(times, tools.F(c.name, v.UTC().Format(time.RFC3339)))
	}
	times = append(times, tools.F("signature_present", len(parts) == 3 && parts[2] != ""))
	b.WriteString(tools.RenderFields(times))
	return b.String(), nil
}
