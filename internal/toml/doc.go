// Package toml reads and writes sections in the TOML layout:
//
//	[DATA_NODE.sales]
//	storage_type = "csv"
//	default_path = "sales.csv"
//
//	[TASK.clean]
//	inputs = ["sales:SECTION"]
//	outputs = ["cleaned:SECTION"]
//	function = "github.com/acme/etl.Clean:function"
//
//	[SCENARIO.monthly]
//	tasks = ["clean:SECTION"]
//	frequency = "MONTHLY:FREQUENCY"
//
// String values may carry a type suffix understood by config.DecodeValue.
// Top-level tables that do not name a section kind are ignored.
package toml
