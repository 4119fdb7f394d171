package storage

// Type is the storage-type tag of a data node configuration.
type Type string

const (
	CSV             Type = "csv"
	SQLTable        Type = "sql_table"
	SQL             Type = "sql"
	MongoCollection Type = "mongo_collection"
	Pickle          Type = "pickle"
	Excel           Type = "excel"
	Generic         Type = "generic"
	JSON            Type = "json"
	Parquet         Type = "parquet"
	S3Object        Type = "s3_object"
	InMemory        Type = "in_memory"
)

// Default is the storage type of a data node that declares none.
const Default = Pickle

// All returns every known storage type in declaration order.
func All() []Type {
	return []Type{CSV, SQLTable, SQL, MongoCollection, Pickle, Excel, Generic, JSON, Parquet, S3Object, InMemory}
}

// Known reports whether t is one of the known storage types.
func Known(t Type) bool {
	_, ok := rules[t]
	return ok
}

// Names returns the known storage types as strings.
func Names() []string {
	all := All()
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = string(t)
	}
	return out
}

// Database engine tags used by the relational storage types.
const (
	EngineSQLite     = "sqlite"
	EngineMySQL      = "mysql"
	EnginePostgreSQL = "postgresql"
	EngineMSSQL      = "mssql"
)

// Property keys shared by several storage types.
const (
	PropDefaultPath  = "default_path"
	PropDefaultData  = "default_data"
	PropEncoding     = "encoding"
	PropHasHeader    = "has_header"
	PropSheetName    = "sheet_name"
	PropDBName       = "db_name"
	PropDBEngine     = "db_engine"
	PropDBUsername   = "db_username"
	PropDBPassword   = "db_password"
	PropDBHost       = "db_host"
	PropDBPort       = "db_port"
	PropDBDriver     = "db_driver"
	PropDBExtraArgs  = "db_extra_args"
	PropSQLiteFolder = "sqlite_folder_path"
	PropSQLiteExt    = "sqlite_file_extension"
	PropTableName    = "table_name"
	PropReadQuery    = "read_query"
	PropWriteQuery   = "write_query_builder"
	PropAppendQuery  = "append_query_builder"
	PropCollection   = "collection_name"
	PropCustomDoc    = "custom_document"
	PropReadFct      = "read_fct"
	PropWriteFct     = "write_fct"
	PropReadFctArgs  = "read_fct_args"
	PropWriteFctArgs = "write_fct_args"
	PropEngine       = "engine"
	PropCompression  = "compression"
	PropReadKwargs   = "read_kwargs"
	PropWriteKwargs  = "write_kwargs"
	PropEncoder      = "encoder"
	PropDecoder      = "decoder"
	PropAWSAccessKey = "aws_access_key"
	PropAWSSecretKey = "aws_secret_access_key"
	PropAWSBucket    = "aws_s3_bucket_name"
	PropAWSObjectKey = "aws_s3_object_key"
	PropAWSRegion    = "aws_region"
	PropAWSObjParams = "aws_s3_object_parameters"
)
