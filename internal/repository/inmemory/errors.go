package inmemory

import "errors"

// errForeignKey mirrors the products.attribute_family_id restriction of the
// postgres schema.
var errForeignKey = errors.New("inmemory: family is referenced by products")
