package types

import (
	"fmt"

	"fortio.org/safecast"
)

// TyArena is the index-based owner of every Ty value for one translation
// unit (§3.4). Types never reference each other by pointer; a Ty's fields
// hold TyIDs that index back into the same arena.
type TyArena struct {
	tys []Ty

	// Int, Float, Bool, String, Unit, Never and Error are the arena-wide
	// singleton ids for the scalar primitives; every translation unit
	// shares one instance of each rather than re-allocating a fresh Ty.
	Int, Float, Bool, String, Unit, Never, Error TyID
}

// NewTyArena creates an empty arena seeded with the handful of singleton
// primitives every translation unit needs, so callers can hand out Int,
// Bool, etc. without re-allocating them.
func NewTyArena() *TyArena {
	a := &TyArena{tys: make([]Ty, 0, 64)}
	a.Int = a.alloc(Ty{Kind: KindInt})
	a.Float = a.alloc(Ty{Kind: KindFloat})
	a.Bool = a.alloc(Ty{Kind: KindBool})
	a.String = a.alloc(Ty{Kind: KindString})
	a.Unit = a.alloc(Ty{Kind: KindUnit})
	a.Never = a.alloc(Ty{Kind: KindNever})
	a.Error = a.alloc(Ty{Kind: KindError})
	return a
}

func (a *TyArena) alloc(t Ty) TyID {
	a.tys = append(a.tys, t)
	n, err := safecast.Conv[uint32](len(a.tys))
	if err != nil {
		panic(fmt.Errorf("types: arena overflow: %w", err))
	}
	return TyID(n)
}

// Alloc allocates a new, non-singleton Ty and returns its id.
func (a *TyArena) Alloc(t Ty) TyID { return a.alloc(t) }

// Get returns the Ty at id. Calling with NoTyID or an id from another arena
// is a programmer error and panics.
func (a *TyArena) Get(id TyID) Ty {
	if !id.IsValid() || int(id) > len(a.tys) {
		panic(fmt.Sprintf("types: invalid TyID %d", id))
	}
	return a.tys[id-1]
}

// Len returns the number of allocated types.
func (a *TyArena) Len() int { return len(a.tys) }
