package config

import (
	"log"
	"net/url"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		fatalMissing(envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		fatalMissing(envName)
	}
}

// MustURL requires an absolute http(s) URL, e.g. the base URL of another service.
func MustURL(value, envName string) {
	MustNonEmpty(value, envName)
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		log.Fatalf("env %s must be an http(s) URL, got %q", envName, value)
	}
}

func fatalMissing(envName string) {
	log.Fatalf("missing required env %s", envName)
}
