// Package api is a typed HTTP client for the stockkeeper REST API.
//
// A Client keeps the bearer token returned by Login in memory only and
// attaches it to every later request. Errors are mapped to:
//
//   - ErrUnavailable when the server cannot be reached (the transport
//     error stays wrapped, so context errors remain matchable);
//   - ErrUnauthorized on 401, after which the stored token is dropped;
//   - *APIError for any other non-2xx status.
package api
