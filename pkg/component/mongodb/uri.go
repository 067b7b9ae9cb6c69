package mongodb

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURI builds a MongoDB URI from options.
// If URI is already set in options, it returns that.
// Otherwise it constructs a URI from host, port, username, password and
// the behavior options.
func BuildURI(opts *Options) string {
	if opts.URI != "" {
		return opts.URI
	}

	var uri strings.Builder

	uri.WriteString("mongodb://")

	if opts.Username != "" {
		uri.WriteString(url.QueryEscape(opts.Username))
		if opts.Password != "" {
			uri.WriteString(":")
			uri.WriteString(url.QueryEscape(opts.Password))
		}
		uri.WriteString("@")
	}

	uri.WriteString(opts.Host)
	if opts.Port != 0 {
		uri.WriteString(fmt.Sprintf(":%d", opts.Port))
	}

	uri.WriteString("/")
	if opts.Database != "" {
		uri.WriteString(opts.Database)
	}

	params := url.Values{}

	if opts.AuthSource != "" && opts.AuthSource != "admin" {
		params.Add("authSource", opts.AuthSource)
	}

	if opts.ReplicaSet != "" {
		params.Add("replicaSet", opts.ReplicaSet)
	}

	if opts.Direct {
		params.Add("directConnection", "true")
	}

	if opts.AppName != "" {
		params.Add("appName", opts.AppName)
	}

	if opts.WriteMajority {
		params.Add("w", "majority")
	}

	if len(params) > 0 {
		uri.WriteString("?")
		uri.WriteString(params.Encode())
	}

	return uri.String()
}

// DatabaseFromURI extracts the logical database name from the path
// segment of a MongoDB URI. It returns an empty string when the URI
// carries no default database.
func DatabaseFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid mongodb uri: %w", err)
	}
	return strings.Trim(u.Path, "/"), nil
}

// redactURI masks the password portion of a credentialed URI so the
// value can appear in logs.
func redactURI(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil {
		// Unparseable, do not risk echoing embedded credentials.
		return redactedPassword
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "REDACTED")
		}
	}
	return u.String()
}
