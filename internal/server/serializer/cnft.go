package serializer

import "github.com/mdouchement/blinkreg/internal/model"

// CompressedNft serializes the render of a compressed NFT.
// The leaf is omitted when nil.
func CompressedNft(m *model.CompressedNft, leaf []byte) map[string]any {
	r := map[string]any{
		"address":                 m.ID,
		"owner":                   m.Owner,
		"name":                    m.Name,
		"symbol":                  m.Symbol,
		"uri":                     m.URI,
		"seller_fee_basis_points": m.SellerFeeBasisPoints,
		"primary_sale_happened":   m.PrimarySaleHappened,
		"is_mutable":              m.IsMutable,
		"tree_id":                 m.TreeID,
		"leaf_id":                 m.LeafID,
		"lamports":                m.Lamports,
		"created_at":              m.CreatedAt,
		"updated_at":              m.UpdatedAt,
	}
	if leaf != nil {
		r["leaf"] = node(leaf)
	}
	return r
}

// CompressedNfts serializes the render of compressed NFTs.
func CompressedNfts(m []*model.CompressedNft) []map[string]any {
	nfts := make([]map[string]any, len(m))
	for i, nft := range m {
		nfts[i] = CompressedNft(nft, nil)
	}
	return nfts
}
