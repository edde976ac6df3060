package diag

import "fmt"

// Code is a compact, stable identifier for a diagnostic kind.
type Code uint16

const (
	// UnknownCode is the zero value; no producer should emit it deliberately.
	UnknownCode Code = 0

	// Resolution errors (component C).
	ResInfo         Code = 1000
	ResUndefined    Code = 1001
	ResDuplicateDef Code = 1002
	ResPrivateItem  Code = 1003

	// Type errors (components D/E).
	TypeInfo                      Code = 2000
	TypeMismatch                  Code = 2001
	TypeOccursCheck               Code = 2002
	TypeUnsatisfiedBound          Code = 2003
	TypeMissingSupertrait         Code = 2004
	TypeMissingAssocType          Code = 2005
	TypeWhereClauseViolation      Code = 2006
	TypeConflictingInstantiation  Code = 2007

	// Const-evaluation errors (supplemented from original_source).
	ConstInfo           Code = 3000
	ConstNonConstExpr   Code = 3001
	ConstDivisionByZero Code = 3002
	ConstOverflow       Code = 3003
	ConstUnsupportedOp  Code = 3004

	// Lifetime errors (§3.5).
	LifetimeInfo                  Code = 4000
	LifetimeDoesNotLiveLongEnough Code = 4001
	LifetimeCircular              Code = 4002
	LifetimeReturnLocalReference  Code = 4003
	LifetimeUnsatisfiable         Code = 4004
	LifetimeConflictingBounds     Code = 4005

	// Borrow-checker errors (component G).
	BorrowInfo               Code = 5000
	BorrowConflictingBorrow  Code = 5001
	BorrowWriteWhileBorrowed Code = 5002
	BorrowUseAfterMove       Code = 5003
	BorrowAfterMove          Code = 5004
	BorrowMoveWhileBorrowed  Code = 5005

	// MIR well-formedness errors (internal invariant violations routed
	// through diag so the driver reports them uniformly rather than panicking).
	MirInfo         Code = 6000
	MirMalformedCFG Code = 6001

	// Driver-level observability (phase timings, cache summaries). These are
	// always SevInfo; they ride the same Bag so a --timings run gets one
	// merged, sorted diagnostic stream instead of a second output channel.
	DriverInfo    Code = 7000
	DriverTimings Code = 7001
)

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", uint16(c))
}

var codeNames = map[Code]string{
	UnknownCode: "unknown",

	ResInfo:         "resolve-info",
	ResUndefined:    "undefined-name",
	ResDuplicateDef: "duplicate-definition",
	ResPrivateItem:  "private-item",

	TypeInfo:                     "type-info",
	TypeMismatch:                 "type-mismatch",
	TypeOccursCheck:              "occurs-check",
	TypeUnsatisfiedBound:         "unsatisfied-bound",
	TypeMissingSupertrait:        "missing-supertrait",
	TypeMissingAssocType:         "missing-associated-type",
	TypeWhereClauseViolation:     "where-clause-violation",
	TypeConflictingInstantiation: "conflicting-instantiation",

	ConstInfo:           "const-info",
	ConstNonConstExpr:   "non-const-expr",
	ConstDivisionByZero: "division-by-zero",
	ConstOverflow:       "overflow",
	ConstUnsupportedOp:  "unsupported-const-op",

	LifetimeInfo:                  "lifetime-info",
	LifetimeDoesNotLiveLongEnough: "does-not-live-long-enough",
	LifetimeCircular:              "circular-lifetime",
	LifetimeReturnLocalReference:  "return-local-reference",
	LifetimeUnsatisfiable:         "unsatisfiable-constraint",
	LifetimeConflictingBounds:     "conflicting-bounds",

	BorrowInfo:               "borrow-info",
	BorrowConflictingBorrow:  "conflicting-borrow",
	BorrowWriteWhileBorrowed: "write-while-borrowed",
	BorrowUseAfterMove:       "use-after-move",
	BorrowAfterMove:          "borrow-after-move",
	BorrowMoveWhileBorrowed:  "move-while-borrowed",

	MirInfo:         "mir-info",
	MirMalformedCFG: "malformed-cfg",

	DriverInfo:    "driver-info",
	DriverTimings: "phase-timings",
}

// Category groups a code by the taxonomy section of the error model.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryResolution
	CategoryType
	CategoryConst
	CategoryLifetime
	CategoryBorrow
	CategoryMIR
	CategoryDriver
)

// Category classifies a code into its taxonomy section based on its range.
func (c Code) Category() Category {
	switch {
	case c >= 1000 && c < 2000:
		return CategoryResolution
	case c >= 2000 && c < 3000:
		return CategoryType
	case c >= 3000 && c < 4000:
		return CategoryConst
	case c >= 4000 && c < 5000:
		return CategoryLifetime
	case c >= 5000 && c < 6000:
		return CategoryBorrow
	case c >= 6000 && c < 7000:
		return CategoryMIR
	case c >= 7000 && c < 8000:
		return CategoryDriver
	default:
		return CategoryUnknown
	}
}
