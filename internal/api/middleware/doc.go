// Package middleware holds the relay's HTTP middleware.
//
// CORS admits browser extension origins, localhost, and https pages on the
// reskinned site, with credentials, so the extension and the page handler
// can both call the relay.
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig("bilibili.com")))
package middleware
