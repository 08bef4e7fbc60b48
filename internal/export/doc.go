// Package export builds the downloadable ZIP archives: a single account, the
// whole store as an importable bundle, and per-account ArchiSteamFarm configs
// rendered from a user-supplied JSON template.
//
// Bulk archives use the same layout the bundle extractor reads (accounts.txt
// plus mafile/<login>.maFile), so an export can be imported back unchanged.
package export
