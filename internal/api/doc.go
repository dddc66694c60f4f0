// Package api handles incoming HTTP requests for users and tasks: request
// decoding, allowlist checks, error mapping and response formatting. It
// adapts HTTP to the services in internal/service.
package api
