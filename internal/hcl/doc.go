// Package hcl reads sections from HCL files:
//
//	data_node "sales" {
//	  storage_type = "csv"
//	  default_path = env("SALES_PATH")
//	}
//
//	task "clean" {
//	  inputs   = [data_node.sales]
//	  outputs  = [data_node.cleaned]
//	  function = "github.com/acme/etl.Clean"
//	}
//
//	scenario "monthly" {
//	  tasks       = [task.clean]
//	  frequency   = "MONTHLY"
//	  comparators = { cleaned = ["github.com/acme/etl.Compare"] }
//	}
//
// References are written as traversals of the data_node and task roots. Any
// id may be referenced, declared or not, in the same file or another one;
// binding happens in the registry. The env function produces a placeholder
// resolved on every read, optionally with a cast: env("PORT", "int").
package hcl
