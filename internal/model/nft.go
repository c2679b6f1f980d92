package model

// A CompressedNft represents a compressed NFT account backed by a Merkle tree leaf.
type CompressedNft struct {
	Base `msgpack:",inline" storm:"inline"`

	Owner                string `msgpack:"owner"                   storm:"index"`
	Name                 string `msgpack:"name"`
	Symbol               string `msgpack:"symbol"`
	URI                  string `msgpack:"uri"`
	SellerFeeBasisPoints uint16 `msgpack:"seller_fee_basis_points"`
	PrimarySaleHappened  bool   `msgpack:"primary_sale_happened"`
	IsMutable            bool   `msgpack:"is_mutable"`
	TreeID               string `msgpack:"tree_id"                 storm:"index"`
	LeafID               uint64 `msgpack:"leaf_id"`

	// Rent-exempt deposit locked by the account.
	Lamports uint64 `msgpack:"lamports"`
}
