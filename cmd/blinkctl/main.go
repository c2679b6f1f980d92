package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mdouchement/blinkreg/internal/client"
	"github.com/mdouchement/blinkreg/pkg/libreg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	verbose bool
)

func main() {
	c := &cobra.Command{
		Use:     "blinkctl",
		Short:   "Blink and compressed NFT registry client",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
	}
	c.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Dump full values")

	setupCmd.Flags().StringVarP(&keypair, "keypair", "k", "", "Solana CLI keypair file (generated when empty)")
	c.AddCommand(setupCmd)
	c.AddCommand(forgetCmd)
	c.AddCommand(addressCmd)
	c.AddCommand(unsealCmd)
	c.AddCommand(backupCmd)
	c.AddCommand(walletCmd)
	c.AddCommand(blinkCommand())
	c.AddCommand(treeCommand())
	c.AddCommand(cnftCommand())

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var keypair string

var (
	setupCmd = &cobra.Command{
		Use:   "setup",
		Short: "Register the blinkreg server and the signer keypair",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Setup(keypair)
		},
	}

	forgetCmd = &cobra.Command{
		Use:   "forget",
		Short: "Remove the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Forget()
		},
	}

	addressCmd = &cobra.Command{
		Use:   "address",
		Short: "Print the signer address",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Address()
		},
	}

	unsealCmd = &cobra.Command{
		Use:   "unseal FILENAME",
		Short: "Write the signer keypair in Solana CLI format",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Unseal(args[0])
		},
	}

	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Backup the signer's accounts in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := client.Open(verbose)
			if err != nil {
				return err
			}

			filename, err := s.Backup(".")
			if err != nil {
				return err
			}
			fmt.Println("Accounts stored in", filename)
			return nil
		},
	}

	walletCmd = &cobra.Command{
		Use:   "wallet [ADDRESS]",
		Short: "Print the storage deposits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.Wallet(optional(args))
			})
		},
	}
)

func blinkCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "blink",
		Short: "Manage blinks",
	}

	var params libreg.CreateBlink
	create := &cobra.Command{
		Use:   "create MINT NAME",
		Short: "Create a blink",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			params.Mint = args[0]
			params.Name = args[1]
			return run(func(s *client.Session) error {
				return s.CreateBlink(params)
			})
		},
	}
	create.Flags().StringVarP(&params.Account, "account", "a", "", "Blink account address (generated when empty)")
	create.Flags().StringVarP(&params.Description, "description", "d", "", "Description")
	create.Flags().StringVarP(&params.BlinkType, "type", "t", "standard", "Blink type")
	create.Flags().BoolVar(&params.IsNFT, "nft", false, "NFT feature")
	create.Flags().BoolVar(&params.IsDonation, "donation", false, "Donation feature")
	create.Flags().BoolVar(&params.IsGift, "gift", false, "Gift feature")
	create.Flags().BoolVar(&params.IsPayment, "payment", false, "Payment feature")
	create.Flags().BoolVar(&params.IsPoll, "poll", false, "Poll feature")
	c.AddCommand(create)

	var name, description, blinkType string
	update := &cobra.Command{
		Use:   "update ADDRESS",
		Short: "Update a blink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params libreg.UpdateBlink
			if cmd.Flags().Changed("name") {
				params.Name = &name
			}
			if cmd.Flags().Changed("description") {
				params.Description = &description
			}
			if cmd.Flags().Changed("type") {
				params.BlinkType = &blinkType
			}
			return run(func(s *client.Session) error {
				return s.UpdateBlink(args[0], params)
			})
		},
	}
	update.Flags().StringVarP(&name, "name", "n", "", "Name")
	update.Flags().StringVarP(&description, "description", "d", "", "Description")
	update.Flags().StringVarP(&blinkType, "type", "t", "", "Blink type")
	c.AddCommand(update)

	c.AddCommand(&cobra.Command{
		Use:   "show ADDRESS",
		Short: "Show a blink",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.ShowBlink(args[0])
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "list [OWNER]",
		Short: "List the blinks of an owner",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.ListBlinks(optional(args))
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "delete ADDRESS",
		Short: "Delete a blink",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.DeleteBlink(args[0])
			})
		},
	})

	return c
}

func treeCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "tree",
		Short: "Manage Merkle trees",
	}

	var params libreg.InitTree
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a Merkle tree",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.InitTree(params)
			})
		},
	}
	create.Flags().StringVarP(&params.Account, "account", "a", "", "Tree account address (generated when empty)")
	create.Flags().Uint32VarP(&params.MaxDepth, "depth", "d", 0, "Max depth (server default when 0)")
	create.Flags().Uint32VarP(&params.MaxBufferSize, "buffer", "b", 0, "Max buffer size (server default when 0)")
	create.Flags().BoolVar(&params.Public, "public", false, "Anyone can append leaves")
	c.AddCommand(create)

	c.AddCommand(&cobra.Command{
		Use:   "show ADDRESS",
		Short: "Show a Merkle tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.ShowTree(args[0])
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "proof ADDRESS INDEX",
		Short: "Fetch and verify the proof of a leaf",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			index, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return errors.Wrap(err, "index")
			}
			return run(func(s *client.Session) error {
				return s.Proof(args[0], uint32(index))
			})
		},
	})

	var since uint64
	changelog := &cobra.Command{
		Use:   "changelog ADDRESS",
		Short: "Show the change log of a Merkle tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.ChangeLog(args[0], since)
			})
		},
	}
	changelog.Flags().Uint64VarP(&since, "since", "s", 0, "Only entries above this sequence")
	c.AddCommand(changelog)

	return c
}

func cnftCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "cnft",
		Short: "Manage compressed NFTs",
	}

	var params libreg.CreateCompressedNft
	mint := &cobra.Command{
		Use:   "mint TREE NAME",
		Short: "Mint a compressed NFT",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			params.MerkleTree = args[0]
			params.Name = args[1]
			return run(func(s *client.Session) error {
				return s.MintCompressedNft(params)
			})
		},
	}
	mint.Flags().StringVarP(&params.Account, "account", "a", "", "Compressed NFT account address (generated when empty)")
	mint.Flags().StringVarP(&params.Symbol, "symbol", "s", "", "Symbol")
	mint.Flags().StringVarP(&params.URI, "uri", "u", "", "Metadata URI")
	mint.Flags().Uint16VarP(&params.SellerFeeBasisPoints, "royalty", "r", 0, "Seller fee basis points")
	c.AddCommand(mint)

	c.AddCommand(&cobra.Command{
		Use:   "show ADDRESS",
		Short: "Show a compressed NFT",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.ShowCompressedNft(args[0])
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "list [OWNER]",
		Short: "List the compressed NFTs of an owner",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.ListCompressedNfts(optional(args))
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "transfer ADDRESS RECIPIENT",
		Short: "Transfer a compressed NFT",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.TransferCompressedNft(args[0], args[1])
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "burn ADDRESS",
		Short: "Burn a compressed NFT",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(s *client.Session) error {
				return s.BurnCompressedNft(args[0])
			})
		},
	})

	return c
}

func run(fn func(s *client.Session) error) error {
	s, err := client.Open(verbose)
	if err != nil {
		return err
	}
	return fn(s)
}

func optional(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
