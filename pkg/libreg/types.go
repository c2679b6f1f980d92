package libreg

type (
	// A Blink is a blink metadata account.
	Blink struct {
		Address     string `json:"address"`
		Owner       string `json:"owner"`
		Mint        string `json:"mint"`
		Name        string `json:"name"`
		Description string `json:"description"`
		BlinkType   string `json:"blink_type"`
		IsNFT       bool   `json:"is_nft"`
		IsDonation  bool   `json:"is_donation"`
		IsGift      bool   `json:"is_gift"`
		IsPayment   bool   `json:"is_payment"`
		IsPoll      bool   `json:"is_poll"`
		Lamports    uint64 `json:"lamports"`
		CreatedAt   int64  `json:"created_at"`
		UpdatedAt   int64  `json:"updated_at"`
	}

	// CreateBlink contains the fields of a new blink.
	CreateBlink struct {
		Account     string `json:"account,omitempty"`
		Mint        string `json:"mint"`
		Name        string `json:"name"`
		Description string `json:"description"`
		BlinkType   string `json:"blink_type"`
		IsNFT       bool   `json:"is_nft"`
		IsDonation  bool   `json:"is_donation"`
		IsGift      bool   `json:"is_gift"`
		IsPayment   bool   `json:"is_payment"`
		IsPoll      bool   `json:"is_poll"`
	}

	// UpdateBlink contains the blink fields to overwrite.
	UpdateBlink struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
		BlinkType   *string `json:"blink_type,omitempty"`
	}

	// A CompressedNft is a compressed NFT account.
	CompressedNft struct {
		Address              string `json:"address"`
		Owner                string `json:"owner"`
		Name                 string `json:"name"`
		Symbol               string `json:"symbol"`
		URI                  string `json:"uri"`
		SellerFeeBasisPoints uint16 `json:"seller_fee_basis_points"`
		PrimarySaleHappened  bool   `json:"primary_sale_happened"`
		IsMutable            bool   `json:"is_mutable"`
		TreeID               string `json:"tree_id"`
		LeafID               uint64 `json:"leaf_id"`
		Leaf                 string `json:"leaf,omitempty"`
		Lamports             uint64 `json:"lamports"`
		CreatedAt            int64  `json:"created_at"`
		UpdatedAt            int64  `json:"updated_at"`
	}

	// CreateCompressedNft contains the fields of a new compressed NFT.
	CreateCompressedNft struct {
		Account              string `json:"account,omitempty"`
		MerkleTree           string `json:"merkle_tree"`
		Name                 string `json:"name"`
		Symbol               string `json:"symbol"`
		URI                  string `json:"uri"`
		SellerFeeBasisPoints uint16 `json:"seller_fee_basis_points"`
	}

	// A Tree is a concurrent Merkle tree account.
	Tree struct {
		Address        string `json:"address"`
		Authority      string `json:"authority"`
		Public         bool   `json:"public"`
		MaxDepth       uint32 `json:"max_depth"`
		MaxBufferSize  uint32 `json:"max_buffer_size"`
		Sequence       uint64 `json:"sequence"`
		RightmostIndex uint32 `json:"rightmost_index"`
		Capacity       uint64 `json:"capacity"`
		Root           string `json:"root"`
		CreatedAt      int64  `json:"created_at"`
		UpdatedAt      int64  `json:"updated_at"`
	}

	// InitTree contains the settings of a new tree.
	InitTree struct {
		Account       string `json:"account,omitempty"`
		MaxDepth      uint32 `json:"max_depth,omitempty"`
		MaxBufferSize uint32 `json:"max_buffer_size,omitempty"`
		Public        bool   `json:"public"`
	}

	// A Proof is the inclusion proof of a tree leaf.
	// All the nodes are base58 encoded.
	Proof struct {
		Tree  string   `json:"tree"`
		Index uint32   `json:"index"`
		Leaf  string   `json:"leaf"`
		Root  string   `json:"root"`
		Proof []string `json:"proof"`
	}

	// A ChangeLog is an entry of the tree change log.
	ChangeLog struct {
		Tree     string `json:"tree"`
		Sequence uint64 `json:"sequence"`
		Kind     string `json:"kind"`
		Index    uint32 `json:"index"`
		Leaf     string `json:"leaf"`
		Root     string `json:"root"`
		At       int64  `json:"at"`
	}

	// A Wallet contains the storage deposits of an address.
	Wallet struct {
		Address  string `json:"address"`
		Locked   uint64 `json:"locked"`
		Refunded uint64 `json:"refunded"`
	}
)
