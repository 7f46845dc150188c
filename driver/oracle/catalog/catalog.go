// Package catalog is an in-process type descriptor cache. It serves the
// metadata primitives of oci.Ops from registered type definitions, which come
// from an HCL catalog file or are loaded on demand from a Source.
package catalog

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/actiontech/udt/driver/oracle/oci"
	"github.com/actiontech/udt/g"
	metrics "github.com/armon/go-metrics"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"
)

// Source resolves type definitions that are not registered yet. LoadType
// returns nil, nil when the type does not exist.
type Source interface {
	LoadType(schema, name string) (*TypeDef, error)
}

type Catalog struct {
	logger        hclog.Logger
	db            *memdb.MemDB
	source        Source
	defaultSchema string

	nextID uint64
	// serializes loads from source
	loadLock sync.Mutex
}

type Option func(*Catalog)

func WithSource(src Source) Option {
	return func(c *Catalog) {
		c.source = src
	}
}

// WithDefaultSchema sets the schema used for names that are not qualified.
func WithDefaultSchema(schema string) Option {
	return func(c *Catalog) {
		c.defaultSchema = g.NormalizeName(schema)
	}
}

func New(logger hclog.Logger, opts ...Option) (*Catalog, error) {
	db, err := memdb.NewMemDB(catalogSchema())
	if err != nil {
		return nil, fmt.Errorf("catalog setup failed: %v", err)
	}
	c := &Catalog{
		logger: logger.Named("catalog"),
		db:     db,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Register adds or replaces type definitions. Pins on replaced types are kept.
func (c *Catalog) Register(defs ...*TypeDef) error {
	txn := c.db.Txn(true)
	defer txn.Abort()

	for _, def := range defs {
		def.Schema = g.StringElse(def.Schema, c.defaultSchema)
		if err := def.Validate(); err != nil {
			return err
		}
		entry := &typeEntry{
			Key:    def.Key(),
			Schema: def.Schema,
			Name:   def.Name,
			Def:    def,
		}
		existing, err := txn.First(tableTypes, "id", entry.Key)
		if err != nil {
			return fmt.Errorf("type lookup failed: %v", err)
		}
		if existing != nil {
			entry.Pins = existing.(*typeEntry).Pins
		}
		if err := txn.Insert(tableTypes, entry); err != nil {
			return fmt.Errorf("type insert failed: %v", err)
		}
		c.logger.Debug("registered type", "type", entry.Key,
			"attributes", len(def.Attributes), "collection", def.IsCollection())
	}

	txn.Commit()
	return nil
}

// Types returns every registered definition.
func (c *Catalog) Types() ([]*TypeDef, error) {
	txn := c.db.Txn(false)
	iter, err := txn.Get(tableTypes, "id")
	if err != nil {
		return nil, fmt.Errorf("type lookup failed: %v", err)
	}
	var defs []*TypeDef
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		defs = append(defs, raw.(*typeEntry).Def)
	}
	return defs, nil
}

// Lookup returns the definition of schema.name, loading it from the source
// when it is not registered. An empty schema matches the default schema, or
// any schema when there is no default.
func (c *Catalog) Lookup(schema, name string) (*TypeDef, error) {
	entry, err := c.lookupEntry(schema, name)
	if err != nil {
		return nil, err
	}
	return entry.Def, nil
}

func (c *Catalog) lookupEntry(schema, name string) (*typeEntry, error) {
	schema = g.StringElse(schema, c.defaultSchema)
	entry, err := c.findEntry(schema, name)
	if err != nil || entry != nil {
		return entry, err
	}
	if c.source == nil {
		return nil, oci.NewError(oci.ErrObjectNotExist, "object %s does not exist", displayName(schema, name))
	}

	c.loadLock.Lock()
	defer c.loadLock.Unlock()
	if entry, err := c.findEntry(schema, name); err != nil || entry != nil {
		return entry, err
	}
	def, err := c.source.LoadType(schema, name)
	if err != nil {
		return nil, errors.Wrapf(err, "load type %s", displayName(schema, name))
	}
	if def == nil {
		return nil, oci.NewError(oci.ErrObjectNotExist, "object %s does not exist", displayName(schema, name))
	}
	metrics.IncrCounter([]string{"catalog", "load"}, 1)
	if err := c.Register(def); err != nil {
		return nil, err
	}
	return c.findEntry(def.Schema, def.Name)
}

func (c *Catalog) findEntry(schema, name string) (*typeEntry, error) {
	txn := c.db.Txn(false)
	if schema != "" {
		raw, err := txn.First(tableTypes, "id", typeKey(schema, name))
		if err != nil {
			return nil, fmt.Errorf("type lookup failed: %v", err)
		}
		if raw == nil {
			return nil, nil
		}
		return raw.(*typeEntry), nil
	}
	raw, err := txn.First(tableTypes, "name", name)
	if err != nil {
		return nil, fmt.Errorf("type lookup failed: %v", err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*typeEntry), nil
}

func displayName(schema, name string) string {
	if schema == "" {
		return name
	}
	return typeKey(schema, name)
}

// Ref returns a reference to the TDO of schema.name that can be pinned.
func (c *Catalog) Ref(schema, name string) (oci.Ref, error) {
	entry, err := c.lookupEntry(schema, name)
	if err != nil {
		return nil, err
	}
	return &tdoRef{key: entry.Key}, nil
}

// Pins returns the number of outstanding pins on the TDO of schema.name.
func (c *Catalog) Pins(schema, name string) int {
	entry, err := c.findEntry(schema, name)
	if err != nil || entry == nil {
		return 0
	}
	return entry.Pins
}

func (c *Catalog) OpenDescribeHandles() int {
	return c.count(tableHandles)
}

func (c *Catalog) LiveInstances() int {
	return c.count(tableInstances)
}

func (c *Catalog) count(table string) int {
	txn := c.db.Txn(false)
	iter, err := txn.Get(table, "id")
	if err != nil {
		return 0
	}
	n := 0
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		n++
	}
	return n
}

func (c *Catalog) newID() uint64 {
	return atomic.AddUint64(&c.nextID, 1)
}

// addPins adjusts the pin count of the type stored under key.
func (c *Catalog) addPins(key string, delta int) error {
	txn := c.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableTypes, "id", key)
	if err != nil {
		return fmt.Errorf("type lookup failed: %v", err)
	}
	if raw == nil {
		return oci.NewError(oci.ErrArgumentOutOfRange, "argument is out of range: no type %s", key)
	}
	entry := *raw.(*typeEntry)
	if entry.Pins+delta < 0 {
		return oci.NewError(oci.ErrInvalidMemoryAddress, "type %s is not pinned", key)
	}
	entry.Pins += delta
	if err := txn.Insert(tableTypes, &entry); err != nil {
		return fmt.Errorf("type insert failed: %v", err)
	}
	txn.Commit()
	return nil
}
