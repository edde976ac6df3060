package source

import "github.com/google/uuid"

// Symbol is the opaque, cheap-to-copy interned identifier named in the data
// model. It is a plain alias for StringID: interning already gives O(1)
// equality and hashing, and a distinct wrapper type would only cost a
// conversion at every call site for no extra safety.
type Symbol = StringID

// NoSymbol is the sentinel for "no interned name".
const NoSymbol = NoStringID

// TUVersion stamps a translation unit so a driver can detect a stale HIR/type
// handle after an incremental invalidation without reaching into interner or
// arena internals. It carries no ordering meaning, only identity.
type TUVersion string

// NewTUVersion mints a fresh, globally unique translation-unit version.
func NewTUVersion() TUVersion {
	return TUVersion(uuid.NewString())
}
