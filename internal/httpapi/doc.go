// Package httpapi exposes area analysis over HTTP.
//
// Routes:
//
//	GET  /         upload page
//	GET  /health   liveness probe
//	POST /analyze  multipart "image" + "json" -> pie chart PNG
//
// POST /analyze returns the JSON result instead of the chart when called
// with ?format=json. Rejected requests answer 400 with {"error": message};
// processing failures answer 500, and runs that exceed the configured
// request timeout answer 503.
//
// Every request carries an X-Request-ID header, echoed from the client or
// generated, and server-side log lines for the request include it.
package httpapi
