package chains

import "testing"

func TestLookup(t *testing.T) {
	t.Parallel()

	n, ok := Lookup(8453)
	if !ok || n.Name != "Base" {
		t.Fatalf("Lookup(8453) = %+v, %v", n, ok)
	}
	if _, ok := Lookup(1); ok {
		t.Fatalf("Lookup(1) should miss; mainnet is not registered")
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		id   int64
		want string
	}{
		{8453, "Base"},
		{10, "Optimism"},
		{42220, "Celo"},
		{1, "chain 1"},
		{0, "chain 0"},
	}
	for _, tc := range cases {
		if got := Name(tc.id); got != tc.want {
			t.Errorf("Name(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestExplorerAddressURL(t *testing.T) {
	t.Parallel()

	const addr = "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"

	if got, want := ExplorerAddressURL(10, addr), "https://optimistic.etherscan.io/address/"+addr; got != want {
		t.Fatalf("ExplorerAddressURL(10) = %q, want %q", got, want)
	}
	// Unknown chains link through the Base explorer.
	if got, want := ExplorerAddressURL(999, addr), "https://basescan.org/address/"+addr; got != want {
		t.Fatalf("ExplorerAddressURL(999) = %q, want %q", got, want)
	}
}
