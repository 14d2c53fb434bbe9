// Package cache provides a bounded LRU map.
//
// It backs covering.Cached, which memoizes coverings per polygon so that rows
// sharing one geography value are covered once.
package cache
