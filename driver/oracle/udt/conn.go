package udt

import (
	"github.com/actiontech/udt/driver/oracle/oci"
	hclog "github.com/hashicorp/go-hclog"
)

const (
	// AL32UTF8 and AL16UTF16
	defaultMaxBytesPerCharacter  = 4
	defaultNMaxBytesPerCharacter = 2
)

// Conn binds the handles of this package to a metadata provider. Every
// ObjectType holds a reference on the Conn it was described through.
type Conn struct {
	genBase
	ops    oci.Ops
	logger hclog.Logger

	maxBytesPerCharacter  uint32
	nmaxBytesPerCharacter uint32
}

type ConnOption func(*Conn)

func WithLogger(logger hclog.Logger) ConnOption {
	return func(c *Conn) {
		c.logger = logger
	}
}

// WithCharsetSizes sets the maximum bytes per character of the database and
// national character sets. Zero keeps the default.
func WithCharsetSizes(maxBytes, nmaxBytes uint32) ConnOption {
	return func(c *Conn) {
		if maxBytes > 0 {
			c.maxBytesPerCharacter = maxBytes
		}
		if nmaxBytes > 0 {
			c.nmaxBytesPerCharacter = nmaxBytes
		}
	}
}

func NewConn(ops oci.Ops, opts ...ConnOption) (*Conn, error) {
	if ops == nil {
		return nil, newError("create connection", ErrCodeNullPointer, "ops")
	}
	c := &Conn{
		ops:                   ops,
		logger:                hclog.NewNullLogger(),
		maxBytesPerCharacter:  defaultMaxBytesPerCharacter,
		nmaxBytesPerCharacter: defaultNMaxBytesPerCharacter,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("udt")
	allocate(c, handleConn)
	return c, nil
}

func (c *Conn) gen() *genBase {
	if c == nil {
		return nil
	}
	return &c.genBase
}

func (c *Conn) free() {
	c.logger.Debug("connection released")
	c.ops = nil
}

func (c *Conn) AddRef() error {
	return addRef(c, handleConn, "Conn.AddRef")
}

func (c *Conn) Release() error {
	return release(c, handleConn, "Conn.Release")
}

// Close drops the caller's reference. The connection stays usable by the
// object types still referencing it.
func (c *Conn) Close() error {
	return c.Release()
}

// GetObjectType describes the type called name, optionally qualified with
// its schema, and returns a new ObjectType for it.
func (c *Conn) GetObjectType(name string) (*ObjectType, error) {
	if err := startPublicFn(c, handleConn, "Conn.GetObjectType"); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, newError("get object type", ErrCodeNullPointer, "name")
	}

	h, err := c.ops.HandleAlloc()
	if err != nil {
		return nil, ociError("allocate describe handle", err)
	}
	defer c.ops.HandleFree(h)

	if err := c.ops.DescribeAny(h, name, oci.ObjectKindName); err != nil {
		return nil, ociError("describe type", err)
	}
	param, err := getAttrDesc(c.ops, h, oci.AttrParam, "get top level parameter")
	if err != nil {
		return nil, err
	}
	t, err := newObjectType(c, param, oci.AttrName)
	if err != nil {
		c.logger.Debug("get object type failed", "name", name, "err", err)
		return nil, err
	}
	c.logger.Debug("got object type", "name", t.FullName(), "attributes", t.numAttributes,
		"collection", t.isCollection)
	return t, nil
}
