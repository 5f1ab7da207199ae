package repository

import (
	"context"
)

// SlotName is the name of the slot holding the client collection.
// Kept from the original storage key so existing exports stay readable.
const SlotName = "fitcrm_clients"

// CollectionSlot is the persistence medium: a single named slot holding
// the entire client collection in serialized form.
//
// Load returns the last written value, or (nil, nil) when nothing has
// been written yet. A slot never interprets the bytes. Save replaces the
// slot content entirely — there are no partial or incremental writes.
type CollectionSlot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
