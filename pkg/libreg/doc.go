//
// libreg is client that interacts with blinkreg API for managing blinks and compressed NFTs.
//

// Load the signer
//
//	signer, err := libreg.LoadKeypair("~/.config/solana/id.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Create client
//
//	client, err := libreg.NewDefaultClient("https://blinkreg.nas.lan", &signer)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Create a blink
//
//	blink, err := client.CreateBlink(libreg.CreateBlink{
//		Mint:        "So11111111111111111111111111111111111111112",
//		Name:        "Coffee tip",
//		Description: "Buy me a coffee",
//		BlinkType:   "standard",
//		IsDonation:  true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Mint a compressed NFT
//
//	tree, err := client.InitTree(libreg.InitTree{MaxDepth: 14})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	nft, err := client.CreateCompressedNft(libreg.CreateCompressedNft{
//		MerkleTree: tree.Address,
//		Name:       "Ticket #1",
//		Symbol:     "TIX",
//		URI:        "https://arweave.net/ticket-1.json",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proof, err := client.GetProof(tree.Address, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Every request other than GET is signed with the X-Signer, X-Timestamp and X-Signature headers.
package libreg
