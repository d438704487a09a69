/*
Package repository defines the storage capability contracts used by persist.

A backend (or a decorator wrapping one) declares which of four independent
capability sets it satisfies:

	type SimpleSync interface {
	    Delete(key string) error
	    Store(key string, data []byte) error
	    Retrieve(key string) ([]byte, error)
	}

	type SimpleAsync interface {
	    DeleteContext(ctx context.Context, key string) error
	    StoreContext(ctx context.Context, key string, data []byte) error
	    RetrieveContext(ctx context.Context, key string) ([]byte, error)
	}

FullSync and FullAsync add item metadata, predicate listing, rename and
sequence store/retrieve on top of the matching simple contract. Byte blobs
are the only values that cross a repository boundary; a key that was never
stored retrieves as a nil slice with a nil error.

Item-level access runs a codec above any repository:

	err := repository.StoreItem(repo, codec.JSON(), "settings", settings)
	got, err := repository.RetrieveItem[Settings](repo, codec.JSON(), "settings")

Sequences are lazy, single-pass cursors:

	seq := repo.MetadataMatching(repository.MustMatchExpr(`size > 1024`))
	for seq.Next() {
	    fmt.Println(seq.Value().Name)
	}
	if err := seq.Err(); err != nil {
	    return err
	}
*/
package repository
