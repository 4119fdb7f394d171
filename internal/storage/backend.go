package storage

import "context"

// Backend reads and writes the data of one data node. Implementations live
// outside the configuration core.
type Backend interface {
	Read(ctx context.Context) (any, error)
	Write(ctx context.Context, data any) error
}

// Factory builds a Backend from the descriptor of a data node, as returned
// by DataNodeConfig.Descriptor.
type Factory func(d Descriptor) (Backend, error)
