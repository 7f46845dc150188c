package config

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/godror/godror"
	"github.com/pkg/errors"
)

type OracleConfig struct {
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	ServiceName string `mapstructure:"service_name"`
}

type OracleDB struct {
	ctx          context.Context
	_db          *sql.DB
	MetaDataConn *sql.Conn
}

const (
	TypeCodeObject     = "OBJECT"
	TypeCodeCollection = "COLLECTION"
)

// TypeHeader is a row of ALL_TYPES.
type TypeHeader struct {
	Owner      string
	Name       string
	TypeCode   string
	Attributes int
}

// TypeAttribute is a row of ALL_TYPE_ATTRS, or the element part of a row of
// ALL_COLL_TYPES (Name is empty then).
type TypeAttribute struct {
	Name        string
	TypeMod     string
	TypeOwner   string
	TypeName    string
	Length      int64
	Precision   int64
	Scale       int64
	CharsetName string
	CharUsed    string
}

// CollectionType is a row of ALL_COLL_TYPES.
type CollectionType struct {
	CollType   string
	UpperBound int64
	Element    TypeAttribute
}

func (m *OracleConfig) ConnectString() string {
	return fmt.Sprintf("%s:%d/%s", m.Host, m.Port, m.ServiceName)
}

func OpenDb(meta *OracleConfig) (*sql.DB, error) {
	if meta.ServiceName == "" {
		meta.ServiceName = "xe"
	}
	if meta.Port == 0 {
		meta.Port = 1521
	}
	sqlDb, err := sql.Open("godror", fmt.Sprintf(`user="%s" password="%s" connectString="%s"`, meta.User, meta.Password, meta.ConnectString()))
	if err != nil {
		return nil, errors.Wrap(err, "error on open oracle database")
	}
	return sqlDb, nil
}

func NewDB(ctx context.Context, meta *OracleConfig) (*OracleDB, error) {
	sqlDB, err := OpenDb(meta)
	if err != nil {
		return nil, err
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, errors.Wrapf(err, "ping %s", meta.ConnectString())
	}
	return NewDBFromSQL(ctx, sqlDB)
}

// NewDBFromSQL wraps an open database. The OracleDB owns sqlDB afterwards.
func NewDBFromSQL(ctx context.Context, sqlDB *sql.DB) (*OracleDB, error) {
	oracleDB := &OracleDB{
		ctx: ctx,
		_db: sqlDB,
	}
	var err error
	oracleDB.MetaDataConn, err = sqlDB.Conn(ctx)
	if err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "error on get connection")
	}
	return oracleDB, nil
}

func (o *OracleDB) Close() error {
	if o.MetaDataConn != nil {
		o.MetaDataConn.Close()
	}
	return o._db.Close()
}

// GetTypeHeader returns nil when owner.name does not exist.
func (o *OracleDB) GetTypeHeader(owner, name string) (*TypeHeader, error) {
	query := `SELECT TYPECODE, NVL(ATTRIBUTES, 0)
	FROM ALL_TYPES
	WHERE OWNER = :1
	AND TYPE_NAME = :2`

	header := &TypeHeader{Owner: owner, Name: name}
	var typeCode sql.NullString
	err := o.MetaDataConn.QueryRowContext(o.ctx, query, owner, name).Scan(&typeCode, &header.Attributes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "query type %s.%s", owner, name)
	}
	header.TypeCode = typeCode.String
	return header, nil
}

func (o *OracleDB) GetTypeAttributes(owner, name string) ([]*TypeAttribute, error) {
	query := `SELECT ATTR_NAME, ATTR_TYPE_MOD, ATTR_TYPE_OWNER, ATTR_TYPE_NAME,
	LENGTH, PRECISION, SCALE, CHARACTER_SET_NAME, CHAR_USED
	FROM ALL_TYPE_ATTRS
	WHERE OWNER = :1
	AND TYPE_NAME = :2
	ORDER BY ATTR_NO`

	rows, err := o.MetaDataConn.QueryContext(o.ctx, query, owner, name)
	if err != nil {
		return nil, errors.Wrapf(err, "query attributes of %s.%s", owner, name)
	}
	defer rows.Close()

	var attrs []*TypeAttribute
	for rows.Next() {
		var attrName string
		var attr *TypeAttribute
		attr, err = scanTypeAttribute(rows, &attrName)
		if err != nil {
			return nil, err
		}
		attr.Name = attrName
		attrs = append(attrs, attr)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "query attributes of %s.%s", owner, name)
	}
	return attrs, nil
}

// GetCollectionType returns nil when owner.name is not a collection type.
func (o *OracleDB) GetCollectionType(owner, name string) (*CollectionType, error) {
	query := `SELECT COLL_TYPE, NVL(UPPER_BOUND, 0), ELEM_TYPE_MOD, ELEM_TYPE_OWNER, ELEM_TYPE_NAME,
	LENGTH, PRECISION, SCALE, CHARACTER_SET_NAME, CHAR_USED
	FROM ALL_COLL_TYPES
	WHERE OWNER = :1
	AND TYPE_NAME = :2`

	rows, err := o.MetaDataConn.QueryContext(o.ctx, query, owner, name)
	if err != nil {
		return nil, errors.Wrapf(err, "query collection %s.%s", owner, name)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, errors.Wrapf(err, "query collection %s.%s", owner, name)
		}
		return nil, nil
	}
	coll := &CollectionType{}
	elem, err := scanTypeAttribute(rows, &coll.CollType, &coll.UpperBound)
	if err != nil {
		return nil, err
	}
	coll.Element = *elem
	return coll, nil
}

// scanTypeAttribute scans the type columns shared by ALL_TYPE_ATTRS and
// ALL_COLL_TYPES after the given leading columns.
func scanTypeAttribute(rows *sql.Rows, leading ...interface{}) (*TypeAttribute, error) {
	var typeMod, typeOwner, typeName, charsetName, charUsed sql.NullString
	var length, precision, scale sql.NullInt64

	dest := append(leading, &typeMod, &typeOwner, &typeName,
		&length, &precision, &scale, &charsetName, &charUsed)
	if err := rows.Scan(dest...); err != nil {
		return nil, errors.Wrap(err, "scan type attribute")
	}
	return &TypeAttribute{
		TypeMod:     typeMod.String,
		TypeOwner:   typeOwner.String,
		TypeName:    typeName.String,
		Length:      length.Int64,
		Precision:   precision.Int64,
		Scale:       scale.Int64,
		CharsetName: charsetName.String,
		CharUsed:    charUsed.String,
	}, nil
}
