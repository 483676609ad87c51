// Package service contains the application services that coordinate domain
// logic, persistence, and external collaborators.
package service
