package feature

import (
	"sort"
	"strconv"
)

// ClusterID identifies a cluster of homologous genes within a cluster run.
// The zero value is Unassigned.
type ClusterID struct {
	id       int
	assigned bool
}

// Unassigned marks a feature that belongs to no cluster, such as a search hit.
var Unassigned = ClusterID{}

// Cluster returns the assigned cluster ID for id.
func Cluster(id int) ClusterID {
	return ClusterID{id: id, assigned: true}
}

// IsAssigned reports whether c names a real cluster.
func (c ClusterID) IsAssigned() bool {
	return c.assigned
}

// Less orders cluster IDs ascending, with Unassigned before every assigned ID.
func (c ClusterID) Less(o ClusterID) bool {
	if c.assigned != o.assigned {
		return !c.assigned
	}
	return c.id < o.id
}

// String returns the numeric ID, or "-1" for Unassigned.
func (c ClusterID) String() string {
	if !c.IsAssigned() {
		return "-1"
	}
	return strconv.Itoa(c.id)
}

// SortClusters sorts ids in place in ascending order.
func SortClusters(ids []ClusterID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Less(ids[j])
	})
}
