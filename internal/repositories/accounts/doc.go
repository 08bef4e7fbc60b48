// Package accounts provides the persistence layer for account records.
//
// # Overview
//
// The store is a single JSON document mapping identity keys (steam id, else
// login) to account records, see internal/models. JSONRepository keeps it in
// a file on a zfilesystem.ReadWriteFileFS and rewrites the whole document on
// every change.
//
// # Self-healing
//
// A missing store file is created as an empty object on first access. A file
// that cannot be decoded is logged and replaced with an empty object.
//
// # Concurrency
//
// Every operation holds the repository mutex for its full read-modify-write
// cycle, so one JSONRepository may be shared by the bot, the console and the
// backup job. Two repositories over the same file are not coordinated.
//
// Typical Usage
//
//	repo := accounts.NewJSONRepository(zfilesystem.NewOSFileSystem(dir), "accounts.json", log)
//	err := repo.Update(ctx, func(s accounts.Snapshot) error {
//		s["alice"] = acc
//		return nil
//	})
//	one, err := repo.Get(ctx, "alice")
package accounts
