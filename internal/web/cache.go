package web

import "tutorial/framework/httpserver"

const (
	cacheControlPublicHour = "public, max-age=3600, s-maxage=3600"
	// Redirects are permanent, so shared caches may keep them for a day.
	cacheControlRedirect = "public, max-age=86400, s-maxage=86400"
	cacheControlNoStore  = "no-store"
)

func cachePolicies() httpserver.CachePolicies {
	return httpserver.CachePolicies{
		HTML:     cacheControlPublicHour,
		Static:   cacheControlPublicHour,
		Health:   cacheControlNoStore,
		Redirect: cacheControlRedirect,
		Error:    cacheControlNoStore,
	}
}
