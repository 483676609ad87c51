// Package api contains the HTTP handlers, request/response models, and error
// mapping for the public REST surface. Handlers decode and validate input,
// delegate to services and stores, and translate internal errors into the
// standard error envelope without leaking internal detail.
package api
