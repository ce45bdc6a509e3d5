// Package responses writes API bodies: plain JSON for resources and RFC 7807
// problem details for errors.
package responses
