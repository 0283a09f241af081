// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware accepts a client supplied X-Request-ID when it matches
// [a-zA-Z0-9_-]{1,128} and otherwise generates a UUID. The id is stored in the
// request context, echoed in the response header and picked up by the logger
// through LoggerExtractor.
package requestid
