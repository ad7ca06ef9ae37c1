package relay

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Strategy is one way of reaching the upstream host: directly, or through a
// public CORS relay expressed as a pure URL transform.
type Strategy struct {
	Name string
	// Build maps the upstream target URL to the URL actually fetched.
	Build func(target string) string
	// Unwrap strips a relay-specific envelope from the body. Nil means the
	// relay passes the upstream body through untouched.
	Unwrap func(body []byte) ([]byte, error)
}

// defaultStrategies is ordered by observed reliability, not by cost. Reorder
// here; the router does not branch on names.
var defaultStrategies = []Strategy{
	{
		Name:  "direct",
		Build: func(target string) string { return target },
	},
	{
		Name: "allorigins",
		Build: func(target string) string {
			return "https://api.allorigins.win/raw?url=" + url.QueryEscape(target)
		},
	},
	{
		Name: "corsproxy",
		Build: func(target string) string {
			return "https://corsproxy.io/?" + url.QueryEscape(target)
		},
	},
	{
		Name: "codetabs",
		Build: func(target string) string {
			return "https://api.codetabs.com/v1/proxy?quest=" + url.QueryEscape(target)
		},
	},
	{
		Name: "cors-anywhere",
		Build: func(target string) string {
			return "https://cors-anywhere.herokuapp.com/" + target
		},
	},
	{
		Name: "allorigins-get",
		Build: func(target string) string {
			return "https://api.allorigins.win/get?url=" + url.QueryEscape(target)
		},
		Unwrap: unwrapAllOriginsGet,
	},
}

// DefaultStrategies returns a copy of the built-in strategy list.
func DefaultStrategies() []Strategy {
	out := make([]Strategy, len(defaultStrategies))
	copy(out, defaultStrategies)
	return out
}

// allOriginsEnvelope is the /get response shape: the upstream body arrives as
// a string in contents, next to the relay's own status block.
type allOriginsEnvelope struct {
	Contents *string `json:"contents"`
	Status   struct {
		HTTPCode int `json:"http_code"`
	} `json:"status"`
}

func unwrapAllOriginsGet(body []byte) ([]byte, error) {
	var env allOriginsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Status.HTTPCode >= 400 {
		return nil, fmt.Errorf("upstream returned status %d", env.Status.HTTPCode)
	}
	if env.Contents == nil || strings.TrimSpace(*env.Contents) == "" {
		return nil, fmt.Errorf("envelope has no contents")
	}
	return []byte(*env.Contents), nil
}
