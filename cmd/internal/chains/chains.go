// Package chains describes the networks warden issues sessions against.
//
// The registry is static: session rows carry an immutable chain ID and the
// engine never validates it against this list, so an unknown network only
// degrades display metadata, never a lifecycle operation.
package chains

import "fmt"

// Network is display metadata for a supported chain.
type Network struct {
	ID          int64
	Name        string
	ExplorerURL string
}

var networks = map[int64]Network{
	8453:  {ID: 8453, Name: "Base", ExplorerURL: "https://basescan.org"},
	10:    {ID: 10, Name: "Optimism", ExplorerURL: "https://optimistic.etherscan.io"},
	42220: {ID: 42220, Name: "Celo", ExplorerURL: "https://celoscan.io"},
}

// Lookup returns the network for a chain ID, if registered.
func Lookup(id int64) (Network, bool) {
	n, ok := networks[id]
	return n, ok
}

// Name returns a display name for a chain ID, falling back to "chain <id>".
func Name(id int64) string {
	if n, ok := networks[id]; ok {
		return n.Name
	}
	return fmt.Sprintf("chain %d", id)
}

// ExplorerAddressURL returns a block-explorer link for an address.
// Unknown chains fall back to Base, matching the dashboard's behavior.
func ExplorerAddressURL(id int64, address string) string {
	n, ok := networks[id]
	if !ok {
		n = networks[8453]
	}
	return fmt.Sprintf("%s/address/%s", n.ExplorerURL, address)
}
