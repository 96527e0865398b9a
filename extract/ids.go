package extract

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/contentobj"
)

// AssignIDs sets the ID of every node in the forest to a hash of its kind,
// its path of sibling indexes and its text. The same input always yields
// the same IDs.
func AssignIDs(nodes []contentobj.Node) {
	assignIDs(nodes, "")
}

func assignIDs(nodes []contentobj.Node, prefix string) {
	for i, n := range nodes {
		path := strconv.Itoa(i)
		if prefix != "" {
			path = prefix + "/" + path
		}
		n.Base().ID = nodeID(n, path)
		assignIDs(n.Base().Children(), path)
	}
}

func nodeID(n contentobj.Node, path string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(string(n.Kind())+"|"+path+"|"+n.TextContent()))
}
