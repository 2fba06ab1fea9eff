// Package backup moves one user's settings and timer records in and out of
// JSON files.
//
// # Snapshot format
//
//	{
//	  "version": "1.0.0",
//	  "export_time": "2024-05-15T14:30:00Z",
//	  "settings": {"theme": "\"dark\""},
//	  "records": [ ...store.TimerRecord... ]
//	}
//
// Setting values are copied verbatim; they are already JSON text written by
// the UI.
//
// # Import
//
// Records are re-owned by the importing user. Record ids are globally unique
// in the store, so an id that already exists is skipped and counted in
// Result.Skipped. Options.Replace clears the user's records first.
//
// # Legacy data
//
// ReadLegacy and ImportLegacy handle the layout the UI kept in browser storage
// before the SQLite store existed: a settings object and a history array with
// camelCase fields, each stored as a JSON string under its own key.
package backup
