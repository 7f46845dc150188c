package catalog

import (
	"github.com/hashicorp/go-memdb"
)

const (
	tableTypes     = "types"
	tableHandles   = "handles"
	tableInstances = "instances"
)

// typeEntry is a registered type and the number of outstanding pins on its
// TDO. Entries are never modified in place.
type typeEntry struct {
	Key    string
	Schema string
	Name   string
	Def    *TypeDef
	Pins   int
}

type handleEntry struct {
	ID uint64
}

type instanceEntry struct {
	ID      uint64
	TypeKey string
}

func catalogSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableTypes: {
				Name: tableTypes,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
					"schema": {
						Name:         "schema",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "Schema"},
					},
					"name": {
						Name:    "name",
						Indexer: &memdb.StringFieldIndex{Field: "Name"},
					},
				},
			},
			tableHandles: {
				Name: tableHandles,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.UintFieldIndex{Field: "ID"},
					},
				},
			},
			tableInstances: {
				Name: tableInstances,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.UintFieldIndex{Field: "ID"},
					},
					"type": {
						Name:    "type",
						Indexer: &memdb.StringFieldIndex{Field: "TypeKey"},
					},
				},
			},
		},
	}
}
