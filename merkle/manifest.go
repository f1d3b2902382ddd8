// manifest.go encodes the committed leaf set as a publishable artifact and
// derives the content identifier a distribution's metadata reference
// points at.

package merkle

import (
	"encoding/json"

	"github.com/holiman/uint256"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// manifestEntry is the published JSON form of one committed leaf.
type manifestEntry struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// ManifestBytes encodes the committed set as a JSON array in committed
// order. Equal leaf sets produce byte-identical manifests.
func ManifestBytes(leaves []Leaf) ([]byte, error) {
	entries := make([]manifestEntry, len(leaves))
	for i, leaf := range leaves {
		amount := leaf.Amount
		if amount == nil {
			amount = new(uint256.Int)
		}
		entries[i] = manifestEntry{
			Account: leaf.Account.Hex(),
			Amount:  amount.Dec(),
		}
	}
	return json.Marshal(entries)
}

// ManifestCID derives the manifest's content identifier: CIDv1 with the raw
// codec over a sha2-256 multihash of the manifest bytes.
func ManifestCID(leaves []Leaf) (cid.Cid, error) {
	data, err := ManifestBytes(leaves)
	if err != nil {
		return cid.Undef, err
	}
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
