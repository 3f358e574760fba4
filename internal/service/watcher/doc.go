// Package watcher reports item files changing in the storage directory.
//
// It follows the directory with fsnotify and, for every created or written
// item file, queries the store and hands the decoded sample to a callback.
package watcher
