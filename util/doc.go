// Package util holds small generic helpers, mostly for optional config fields.
package util
