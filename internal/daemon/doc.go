// Package daemon keeps a repository synced over time, either by watching the
// filesystem (Watcher) or on a fixed interval (Scheduler). Both drive an opaque
// SyncFunc and never run two syncs at once.
package daemon
