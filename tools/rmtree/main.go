package main

import (
	"fmt"
	"log"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/mdouchement/blinkreg/pkg/stormcodec"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

var codecName string

func main() {
	c := &coral.Command{
		Use:   "rmtree",
		Short: "Remove an empty Merkle tree and its change log from the database",
		Args:  coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			codec, err := stormcodec.Lookup(codecName)
			if err != nil {
				return err
			}

			//
			//
			fmt.Println("Opening", args[0])
			db, err := storm.Open(args[0], storm.Codec(codec))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			tx, err := db.Begin(true)
			if err != nil {
				return errors.Wrap(err, "begin")
			}
			defer tx.Rollback()

			// Fetch tree
			var tree model.Tree
			err = tx.One("ID", args[1], &tree)
			if err != nil {
				if err == storm.ErrNotFound {
					fmt.Println("No tree at this address")
					return nil
				}
				return errors.Wrap(err, "find tree")
			}

			fmt.Println("Tree found:", tree.ID)

			// Live compressed NFTs keep their leaf in the tree
			n, err := tx.Select(q.Eq("TreeID", tree.ID)).Count(&model.CompressedNft{})
			if err != nil {
				return errors.Wrap(err, "count compressed nfts")
			}
			if n > 0 {
				return errors.Errorf("tree still holds %d compressed NFTs", n)
			}

			// Deleting tree's change log
			err = tx.Select(q.Eq("TreeID", tree.ID)).Delete(&model.ChangeLog{})
			if err != nil && err != storm.ErrNotFound {
				return errors.Wrap(err, "delete change log")
			}
			fmt.Println("Change log removed")

			// Delete tree
			err = tx.DeleteStruct(&tree)
			if err != nil && err != storm.ErrNotFound {
				return errors.Wrap(err, "delete tree")
			}

			if err = tx.Commit(); err != nil {
				return errors.Wrap(err, "commit")
			}
			fmt.Println("Tree removed")

			return nil
		},
	}
	c.Flags().StringVarP(&codecName, "codec", "", stormcodec.MsgPack, "Database codec (msgpack, cbor or binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
