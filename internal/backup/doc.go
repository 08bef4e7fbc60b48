// Package backup periodically exports the whole store as a bundle archive
// and hands it to one or more uploaders.
package backup
