package main

import (
	"encoding/json"
	"fmt"
	"log"
	"reflect"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/mdouchement/blinkreg/pkg/stormcodec"
	"github.com/mdouchement/blinkreg/pkg/stormsql"
	"github.com/mdouchement/blinkreg/pkg/structs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// go run tools/console/main.go blinkreg.db " SELECT Name, BlinkType FROM blinks WHERE Owner = '9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin' AND UpdatedAt > '2023-11-14 22:13:20';  "

var codecName string

func main() {
	c := &cobra.Command{
		Use:   "console",
		Short: "SQL console for blinkreg database",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			//
			//
			sc, err := stormsql.ParseSelect(args[1])
			if err != nil {
				return err
			}

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

			//
			// Prepare request
			//

			query := db.Select(sc.Matcher)
			if sc.Skip > 0 {
				query.Skip(sc.Skip)
			}
			if sc.Limit > 0 {
				query.Limit(sc.Limit)
			}
			if len(sc.OrderBy) > 0 {
				query.OrderBy(sc.OrderBy...)
				if sc.OrderByReversed {
					query.Reverse()
				}
			}

			// Execute

			if sc.Count {
				return count(sc, query)
			}

			return list(sc, query)
		},
	}
	c.Flags().StringVarP(&codecName, "codec", "", stormcodec.MsgPack, "Database codec (msgpack, cbor or binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func table(name string) (any, error) {
	switch name {
	case "blinks":
		return &model.Blink{}, nil
	case "cnfts":
		return &model.CompressedNft{}, nil
	case "trees":
		return &model.Tree{}, nil
	case "changelogs":
		return &model.ChangeLog{}, nil
	case "wallets":
		return &model.Wallet{}, nil
	default:
		return nil, errors.Errorf("unknown tablename: %s", name)
	}
}

func count(sc *stormsql.SelectClause, query storm.Query) error {
	record, err := table(sc.Tablename)
	if err != nil {
		return err
	}

	n, err := query.Count(record)
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	fmt.Println("Count:", n)

	return nil
}

func list(sc *stormsql.SelectClause, query storm.Query) error {
	record, err := table(sc.Tablename)
	if err != nil {
		return err
	}
	records := reflect.New(reflect.SliceOf(reflect.TypeOf(record)))

	err = query.Find(records.Interface())
	if err == storm.ErrNotFound {
		fmt.Println("[]")
		return nil
	}

	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	if len(sc.SelectedFields) == 0 {
		jsondump(records.Interface())
		return nil
	}

	rows := records.Elem()
	projections := make([]map[string]any, rows.Len())
	for i := range projections {
		projections[i], err = structs.Project(rows.Index(i).Interface(), sc.SelectedFields...)
		if err != nil {
			return err
		}
	}
	jsondump(projections)

	return nil
}

func jsondump(v any) {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(d))
}
