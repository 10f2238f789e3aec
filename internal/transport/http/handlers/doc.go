// Package handlers groups the HTTP handlers of each area; the end-to-end tests here drive
// them through the full router.
package handlers
