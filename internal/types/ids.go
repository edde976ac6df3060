// Package types owns the resolved type representation for one translation
// unit (§3.4): a closed sum type of Ty variants, arena-indexed so unifiable
// cyclic structures (recursive structs, Self-referential traits) never need
// pointers.
package types

// TyID indexes a Ty inside a TyArena. The zero value, NoTyID, never
// appears in a valid arena slot.
type TyID uint32

// NoTyID marks the absence of a type reference.
const NoTyID TyID = 0

// IsValid reports whether id refers to an allocated Ty.
func (id TyID) IsValid() bool { return id != NoTyID }

// DefID opaquely identifies the struct/enum/trait definition a nominal type
// refers to. Shared with symbols.DefID's numbering scheme but kept as its
// own type: types must not import symbols (symbols is resolved before
// types exist, never the reverse).
type DefID uint64

// NoDefID marks the absence of a definition.
const NoDefID DefID = 0

// VarID identifies an inference variable minted by the constraint solver.
type VarID uint32
