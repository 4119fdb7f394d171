package storage

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/specialistvlad/pipeconf/internal/function"
)

// Descriptor is the typed view of a data node's storage properties. Each
// storage type decodes into its own struct.
type Descriptor interface {
	StorageType() Type
}

// FileDescriptor covers the file-backed types: csv, excel, json, parquet and pickle.
type FileDescriptor struct {
	Type        Type           `mapstructure:"-"`
	Path        string         `mapstructure:"default_path"`
	Encoding    string         `mapstructure:"encoding"`
	HasHeader   *bool          `mapstructure:"has_header"`
	SheetName   any            `mapstructure:"sheet_name"`
	Engine      string         `mapstructure:"engine"`
	Compression string         `mapstructure:"compression"`
	ReadKwargs  map[string]any `mapstructure:"read_kwargs"`
	WriteKwargs map[string]any `mapstructure:"write_kwargs"`
	Encoder     function.Ref   `mapstructure:"encoder"`
	Decoder     function.Ref   `mapstructure:"decoder"`
	DefaultData any            `mapstructure:"default_data"`
}

func (d *FileDescriptor) StorageType() Type { return d.Type }

// DatabaseDescriptor covers sql, sql_table and mongo_collection.
type DatabaseDescriptor struct {
	Type               Type           `mapstructure:"-"`
	DBName             string         `mapstructure:"db_name"`
	DBEngine           string         `mapstructure:"db_engine"`
	Username           string         `mapstructure:"db_username"`
	Password           string         `mapstructure:"db_password"`
	Host               string         `mapstructure:"db_host"`
	Port               int            `mapstructure:"db_port"`
	Driver             string         `mapstructure:"db_driver"`
	ExtraArgs          map[string]any `mapstructure:"db_extra_args"`
	SQLiteFolder       string         `mapstructure:"sqlite_folder_path"`
	SQLiteExtension    string         `mapstructure:"sqlite_file_extension"`
	TableName          string         `mapstructure:"table_name"`
	ReadQuery          string         `mapstructure:"read_query"`
	WriteQueryBuilder  function.Ref   `mapstructure:"write_query_builder"`
	AppendQueryBuilder function.Ref   `mapstructure:"append_query_builder"`
	Collection         string         `mapstructure:"collection_name"`
	CustomDocument     any            `mapstructure:"custom_document"`
}

func (d *DatabaseDescriptor) StorageType() Type { return d.Type }

// GenericDescriptor delegates reads and writes to user functions.
type GenericDescriptor struct {
	ReadFct      function.Ref `mapstructure:"read_fct"`
	WriteFct     function.Ref `mapstructure:"write_fct"`
	ReadFctArgs  []any        `mapstructure:"read_fct_args"`
	WriteFctArgs []any        `mapstructure:"write_fct_args"`
}

func (d *GenericDescriptor) StorageType() Type { return Generic }

// S3Descriptor addresses one object in a bucket.
type S3Descriptor struct {
	AccessKey        string         `mapstructure:"aws_access_key"`
	SecretAccessKey  string         `mapstructure:"aws_secret_access_key"`
	Bucket           string         `mapstructure:"aws_s3_bucket_name"`
	ObjectKey        string         `mapstructure:"aws_s3_object_key"`
	Region           string         `mapstructure:"aws_region"`
	ObjectParameters map[string]any `mapstructure:"aws_s3_object_parameters"`
}

func (d *S3Descriptor) StorageType() Type { return S3Object }

// MemoryDescriptor keeps data in process memory.
type MemoryDescriptor struct {
	DefaultData any `mapstructure:"default_data"`
}

func (d *MemoryDescriptor) StorageType() Type { return InMemory }

// Decode builds the descriptor of storage type t from props. Unknown
// properties are ignored; properties a backend cannot be constructed
// without must be present.
func Decode(t Type, props map[string]any) (Descriptor, error) {
	if err := CheckConstruction(t, props); err != nil {
		return nil, err
	}

	var target Descriptor
	switch t {
	case CSV, Excel, JSON, Parquet, Pickle:
		target = &FileDescriptor{Type: t}
	case SQL, SQLTable, MongoCollection:
		target = &DatabaseDescriptor{Type: t}
	case Generic:
		target = &GenericDescriptor{}
	case S3Object:
		target = &S3Descriptor{}
	case InMemory:
		target = &MemoryDescriptor{}
	default:
		return nil, fmt.Errorf("unknown storage type '%s'", t)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       functionRefHook,
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder for storage type '%s': %w", t, err)
	}
	if err := decoder.Decode(props); err != nil {
		return nil, fmt.Errorf("failed to decode properties of storage type '%s': %w", t, err)
	}
	return target, nil
}

var refType = reflect.TypeOf(function.Ref{})

// functionRefHook turns names and Go funcs into function references.
func functionRefHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != refType || from == refType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return function.Named(v), nil
	case nil:
		return function.Ref{}, nil
	default:
		if from.Kind() == reflect.Func {
			return function.Of(v), nil
		}
		return nil, fmt.Errorf("expected a function, got %T", data)
	}
}
