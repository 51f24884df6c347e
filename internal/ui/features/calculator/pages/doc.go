// Package pages provides the full calculator page.
package pages
