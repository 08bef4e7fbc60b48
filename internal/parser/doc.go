// Package parser turns raw user input into candidate account records.
//
// Two input shapes are understood:
//
//   - a colon-delimited line login:password:mail:mail_password[:link]
//     (see ParseLine);
//   - a .maFile credential payload, a JSON object produced by the Steam
//     desktop authenticator (see ParseMaFile).
//
// Parsers are pure: they never touch the store. Callers reconcile the
// returned candidate through the account service.
package parser
