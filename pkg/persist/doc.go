// Package persist saves and restores group selections.
//
// A Snapshot records a group's selected values. It is encoded as canonical
// CBOR and kept in a Store under the group name:
//
//	store := persist.NewMemoryStore()
//	if err := persist.SaveGroup(ctx, store, g); err != nil {
//	    return err
//	}
//	restored, err := persist.LoadGroup(ctx, store, g)
//
// Three stores are provided: MemoryStore for tests and single runs,
// SQLStore for SQLite or PostgreSQL, and S3Store for object storage. Open
// builds one from Options.
//
// Item ids are process-local, so values that are bare ids are not captured.
// Restoring goes through Group.SetModel and follows its rules.
package persist
