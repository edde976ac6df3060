package mono

import (
	"ember/internal/hir"
	"ember/internal/mir"
	"ember/internal/types"

	"fortio.org/safecast"
)

// instanceBit tags a hir.DefID minted by this package for a monomorphized
// instance, distinguishing it from a real module-level definition — the
// same high-bit tagging convention internal/hir itself uses (at a wider
// bit position) to tell a body-local DefID from an item DefID. A module's
// own definition arena is never going to approach two billion entries, so
// reserving hir.DefID's top bit here is safe.
const instanceBit = hir.DefID(1) << 31

// IsInstance reports whether id was minted by a Monomorphizer rather than
// allocated as a real module-level definition.
func IsInstance(id hir.DefID) bool { return id&instanceBit != 0 }

// Monomorphizer instantiates generic mir.Function templates against
// concrete argument types, caching by (function, arguments) so a given
// instantiation is only ever built once — the Go counterpart of
// get_monomorphized_name's "clone, rename, substitute" shape, minus the
// symbol-mangling step: callers identify instances by minted hir.DefID
// instead of a mangled name, since nothing downstream of MIR reads names.
type Monomorphizer struct {
	ctx *types.Context

	templates map[hir.DefID]*mir.Function
	instances map[string]hir.DefID
	built     map[hir.DefID]*mir.Function

	nextInstance hir.DefID
}

// NewMonomorphizer creates a Monomorphizer allocating substituted types
// into ctx's arena.
func NewMonomorphizer(ctx *types.Context) *Monomorphizer {
	return &Monomorphizer{
		ctx:       ctx,
		templates: make(map[hir.DefID]*mir.Function),
		instances: make(map[string]hir.DefID),
		built:     make(map[hir.DefID]*mir.Function),
	}
}

// Register records fn's MIR body as the generic template later
// Instantiate calls for this function draw from. A non-generic function
// never needs this: Driver registers every function with generic
// parameters, whether or not the solver recorded witnesses for it.
func (m *Monomorphizer) Register(fn hir.DefID, body *mir.Function) {
	m.templates[fn] = body
}

// Instantiate produces (or returns the cached) concrete mir.Function for
// calling fn with its generic parameters bound to args, in positional
// order. ok is false if fn was never Register'd.
func (m *Monomorphizer) Instantiate(fn hir.DefID, args []types.TyID) (hir.DefID, *mir.Function, bool) {
	key := instanceKey(fn, args)
	if id, ok := m.instances[key]; ok {
		return id, m.built[id], true
	}
	template, ok := m.templates[fn]
	if !ok {
		return hir.NoDefID, nil, false
	}

	subst := make(Substitution, len(args))
	for i, arg := range args {
		idx, err := safecast.Conv[uint32](i)
		if err != nil {
			return hir.NoDefID, nil, false
		}
		subst[idx] = arg
	}

	id := m.freshInstance()
	fresh := m.substituteFunction(template, subst)
	fresh.ID = id

	m.instances[key] = id
	m.built[id] = fresh
	return id, fresh, true
}

// Function returns a previously built instance by id, if any.
func (m *Monomorphizer) Function(id hir.DefID) (*mir.Function, bool) {
	fn, ok := m.built[id]
	return fn, ok
}

func (m *Monomorphizer) freshInstance() hir.DefID {
	m.nextInstance++
	return instanceBit | m.nextInstance
}

func (m *Monomorphizer) substituteFunction(fn *mir.Function, subst Substitution) *mir.Function {
	out := &mir.Function{
		ID:         fn.ID,
		Entry:      fn.Entry,
		ParamCount: fn.ParamCount,
		Locals:     make([]mir.Local, len(fn.Locals)),
		Blocks:     make([]mir.BasicBlock, len(fn.Blocks)),
	}
	for i, l := range fn.Locals {
		out.Locals[i] = mir.Local{
			ID:      l.ID,
			Name:    l.Name,
			Ty:      SubstituteType(m.ctx.Arena, l.Ty, subst),
			Mutable: l.Mutable,
		}
	}
	for i, blk := range fn.Blocks {
		out.Blocks[i] = m.substituteBlock(blk, subst)
	}
	return out
}

func (m *Monomorphizer) substituteBlock(blk mir.BasicBlock, subst Substitution) mir.BasicBlock {
	stmts := make([]mir.Statement, len(blk.Statements))
	for i, s := range blk.Statements {
		stmts[i] = m.substituteStatement(s, subst)
	}
	return mir.BasicBlock{
		ID:         blk.ID,
		Statements: stmts,
		Terminator: m.substituteTerminator(blk.Terminator, subst),
	}
}

func (m *Monomorphizer) substituteStatement(s mir.Statement, subst Substitution) mir.Statement {
	s.Value = m.substituteRValue(s.Value, subst)
	return s
}

func (m *Monomorphizer) substituteRValue(v mir.RValue, subst Substitution) mir.RValue {
	switch v.Kind {
	case mir.RValueUse:
		v.Use = m.substituteOperand(v.Use, subst)
	case mir.RValueBinaryOp:
		v.BinaryOp.Left = m.substituteOperand(v.BinaryOp.Left, subst)
		v.BinaryOp.Right = m.substituteOperand(v.BinaryOp.Right, subst)
	case mir.RValueUnaryOp:
		v.UnaryOp.Operand = m.substituteOperand(v.UnaryOp.Operand, subst)
	case mir.RValueRef:
		// Place carries no type of its own to substitute.
	case mir.RValueAggregate:
		ops := make([]mir.Operand, len(v.Aggr.Operands))
		for i, op := range v.Aggr.Operands {
			ops[i] = m.substituteOperand(op, subst)
		}
		v.Aggr.Operands = ops
	}
	return v
}

func (m *Monomorphizer) substituteOperand(op mir.Operand, subst Substitution) mir.Operand {
	if op.Kind == mir.OperandConstant {
		op.Constant.Ty = SubstituteType(m.ctx.Arena, op.Constant.Ty, subst)
	}
	return op
}

func (m *Monomorphizer) substituteTerminator(t mir.Terminator, subst Substitution) mir.Terminator {
	switch t.Kind {
	case mir.TermReturn:
		if t.HasValue {
			t.Value = m.substituteOperand(t.Value, subst)
		}
	case mir.TermSwitchInt:
		t.Discriminant = m.substituteOperand(t.Discriminant, subst)
	case mir.TermCall:
		args := make([]mir.Operand, len(t.Args))
		for i, a := range t.Args {
			args[i] = m.substituteOperand(a, subst)
		}
		t.Args = args
	case mir.TermGoto, mir.TermUnreachable:
		// no types to substitute
	}
	return t
}

// instanceKey renders (fn, args) into a comparable map key.
func instanceKey(fn hir.DefID, args []types.TyID) string {
	buf := make([]byte, 0, 4+len(args)*4)
	buf = appendUint32(buf, uint32(fn))
	for _, a := range args {
		buf = appendUint32(buf, uint32(a))
	}
	return string(buf)
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
