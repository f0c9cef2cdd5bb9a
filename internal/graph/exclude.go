// Package graph holds the merge engine and the lazy expansion planner that
// grow a schema graph incrementally as objects are described.
package graph

import "strings"

// systemSuffixes marks system-generated companion objects (history tracking,
// sharing rows, feeds, tags, platform events, change data capture). These are
// never represented as nodes or edges regardless of how they are discovered.
var systemSuffixes = []string{
	"History",
	"Share",
	"Feed",
	"Tag",
	"ChangeEvent",
	"__e",
}

// IsSystemObject reports whether the object name matches the system-object
// denylist.
func IsSystemObject(name string) bool {
	for _, suffix := range systemSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
