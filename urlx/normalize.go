// Package urlx implements some URL utility functions.
package urlx

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

var domainRegexp = regexp.MustCompile(
	`^([a-zA-Z0-9-]{1,63}\.)*[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`,
)

func validateHost(host string) (string, error) {
	lower := strings.ToLower(host)
	if domainRegexp.MatchString(lower) || net.ParseIP(lower) != nil {
		return lower, nil
	}
	// The URL will be used by net/http, where IDNA is not supported.
	if punycode, err := idna.ToASCII(host); err != nil {
		return "", err
	} else if domainRegexp.MatchString(punycode) {
		return punycode, nil
	}
	return "", errors.New("not valid domain name or IP address")
}

// Normalize lowercases the scheme and host of u, converts the host to its
// ASCII form, strips the default port and the fragment, and cleans the
// escaped path. Supported schemes are http, https, ftp and ftps.
func Normalize(u *url.URL) error {
	u.Scheme = strings.ToLower(u.Scheme)
	if DefaultPort(u.Scheme) == 0 {
		return fmt.Errorf("normalize URL: unsupported scheme: %v", u.Scheme)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil { // missing port
		host, port = u.Host, ""
	}
	if host == "" {
		return errors.New("normalize URL: empty host")
	} else if v, err := validateHost(host); err != nil {
		return fmt.Errorf("normalize URL: invalid host %q: %v", host, err)
	} else {
		u.Host = v
	}

	if n, _ := strconv.Atoi(port); n != 0 && n == DefaultPort(u.Scheme) {
		port = ""
	}
	if port != "" {
		u.Host = net.JoinHostPort(u.Host, port)
	}
	if u.RawPath != "" {
		u.RawPath = path.Clean(u.RawPath)
	}
	u.Fragment = ""
	return nil
}
