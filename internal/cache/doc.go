// Package cache provides a bounded LRU cache for device-side resources.
//
// GPU backends use it to keep compiled pipelines and shader modules
// alive across frames without growing without bound. Eviction is exact
// LRU and runs a caller-supplied callback so the owning device can
// destroy the evicted resource.
//
// Cache is safe for concurrent use and must not be copied after
// creation.
package cache
