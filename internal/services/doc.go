// Package services implements the account workflows on top of the store:
// reconciling parsed candidates into stored records, importing text lines,
// credential files and ZIP bundles, and listing or deleting records.
package services
