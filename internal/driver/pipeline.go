// Package driver orchestrates one file's worth of analysis passes end to
// end — HIR construction, name resolution, type inference, lifetime
// inference, MIR building, borrow checking, monomorphization, LIR lowering,
// and const evaluation — and fans that orchestration out across a file set
// concurrently.
package driver

import (
	"context"
	"fmt"
	"sort"

	"ember/internal/ast"
	"ember/internal/borrow"
	"ember/internal/consteval"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/infer"
	"ember/internal/lifetime"
	"ember/internal/lir"
	"ember/internal/mir"
	"ember/internal/mono"
	"ember/internal/source"
	"ember/internal/trace"
	"ember/internal/types"

	"golang.org/x/sync/errgroup"
)

// FileInput is one translation unit ready for analysis: a parsed AST plus
// the interned file identity the HIR builder needs to mint spans.
type FileInput struct {
	Path string
	File source.FileID
	AST  *ast.File
	Span source.Span
}

// FunctionResult carries one function's MIR and (if it was reachable as a
// concrete instantiation) its lowered LIR.
type FunctionResult struct {
	DefID hir.DefID
	MIR   *mir.Function
	LIR   *lir.Function
}

// FileResult is everything one file's pipeline run produced: the HIR module
// components B and C left behind, every function's MIR/LIR, every const or
// static's folded value, and the diagnostics every phase accumulated into a
// single bag (accumulate, don't throw, all the way up to the driver).
type FileResult struct {
	Path   string
	Module *hir.Module
	Ctx    *types.Context

	Funcs  []FunctionResult
	Consts map[hir.DefID]consteval.ConstValue

	Diags *diag.Bag
}

// Pipeline runs the analysis pipeline over a shared source.Interner. A
// Pipeline is safe to reuse across files: it holds no per-file state of its
// own, only the interner every HIR module is built against.
type Pipeline struct {
	Interner *source.Interner

	// MaxDiagnostics bounds each file's diag.Bag. Zero falls back to a
	// generous default rather than an unusable zero-capacity bag.
	MaxDiagnostics int
}

// NewPipeline creates a Pipeline sharing interner across every file it runs.
func NewPipeline(interner *source.Interner) *Pipeline {
	return &Pipeline{Interner: interner, MaxDiagnostics: 512}
}

// RunFile runs the full per-file pipeline: HIR build + name resolution,
// constraint generation and solving, lifetime inference, MIR building,
// borrow checking, monomorphization + LIR lowering for generic call sites,
// and const/static evaluation. Every phase reports into the same bag, so a
// later phase still runs even if an earlier one found errors — only a
// missing HIR body (a shape the earlier phase couldn't produce at all)
// skips the phases that need it.
func (p *Pipeline) RunFile(ctx context.Context, in FileInput) *FileResult {
	tracer := trace.FromContext(ctx)
	fileSpan := trace.Begin(tracer, trace.ScopeModule, "driver.RunFile:"+in.Path, 0)
	defer fileSpan.End("")

	maxDiags := p.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = 512
	}
	bag := diag.NewBag(maxDiags)
	// Several phases can independently notice the same fault (e.g. a bound
	// checker and the constraint solver both rejecting the same call site);
	// DedupReporter collapses exact repeats before they reach the bag.
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	result := &FileResult{
		Path:   in.Path,
		Ctx:    types.NewContext(),
		Consts: make(map[hir.DefID]consteval.ConstValue),
		Diags:  bag,
	}

	hirSpan := trace.Begin(tracer, trace.ScopePass, "driver.hir", fileSpan.ID())
	module := hir.NewBuilder(in.AST, p.Interner, in.Span, reporter).Build()
	hirSpan.End("")
	result.Module = module

	tyCtx := result.Ctx

	boundChecker := infer.NewHIRBoundChecker(module)
	boundChecker.CheckSupertraits(reporter)
	boundChecker.CheckAssociatedTypes(p.Interner, reporter)

	var allConstraints []infer.Constraint
	functionBodies := make(map[hir.DefID]*hir.Body)
	constEvaluator := consteval.NewEvaluator(module, p.Interner, reporter)

	defs := module.Defs()
	for i := range defs {
		def := &defs[i]
		defID := hir.DefID(i + 1) // Arena allocation is 1-based.

		switch def.Kind {
		case hir.DefFunction:
			body := module.BodyOf(def.Function.Body)
			if body == nil {
				continue
			}
			functionBodies[defID] = body

			checkSpan := trace.Begin(tracer, trace.ScopePass, "driver.check:"+in.Path, hirSpan.ID())
			checker := infer.NewChecker(tyCtx, body)
			checker.CheckExpr(body.Root)
			allConstraints = append(allConstraints, checker.Constraints()...)
			checkSpan.End("")

		case hir.DefConst, hir.DefStatic:
			// One evaluator per file, not per const: EvalConst memoizes by
			// hir.DefID, so a const referenced from several other consts in
			// this file evaluates once no matter which one is visited first.
			if v, ok := constEvaluator.EvalConst(defID); ok {
				result.Consts[defID] = v
			}
		}
	}

	solveSpan := trace.Begin(tracer, trace.ScopePass, "driver.solve", hirSpan.ID())
	solver := infer.NewSolver(tyCtx, allConstraints, boundChecker, reporter)
	solver.Solve()
	instantiations := solver.AllInstantiations()
	// AllInstantiations walks a map; put each function's witnesses in
	// parameter order before they are grouped positionally below.
	sort.Slice(instantiations, func(i, j int) bool {
		return instantiations[i].ParamIndex < instantiations[j].ParamIndex
	})
	solveSpan.End("")

	monomorphizer := mono.NewMonomorphizer(tyCtx)
	witnessesByFn := make(map[hir.DefID][]types.TyID)
	for _, inst := range instantiations {
		witnessesByFn[inst.Function] = append(witnessesByFn[inst.Function], inst.Ty)
	}

	for defID, body := range functionBodies {
		def := module.Def(defID)

		lifetimeSpan := trace.Begin(tracer, trace.ScopePass, "driver.lifetime:"+in.Path, hirSpan.ID())
		inf := lifetime.InferFunction(body, reporter)
		lifetime.Solve(inf.Context(), reporter)
		lifetimeSpan.End("")

		mirSpan := trace.Begin(tracer, trace.ScopePass, "driver.mir:"+in.Path, hirSpan.ID())
		fn := mir.BuildFunction(defID, &def.Function, body, tyCtx, reporter)
		mirSpan.End("")

		borrowSpan := trace.Begin(tracer, trace.ScopePass, "driver.borrow:"+in.Path, hirSpan.ID())
		borrow.Check(fn, reporter)
		borrowSpan.End("")

		fr := FunctionResult{DefID: defID, MIR: fn}

		if len(def.Function.Generics) > 0 {
			monomorphizer.Register(defID, fn)
			for _, args := range groupInstantiationArgs(def.Function.Generics, witnessesByFn[defID]) {
				instID, instFn, ok := monomorphizer.Instantiate(defID, args)
				if !ok {
					continue
				}
				lowered := lir.LowerFunction(tyCtx, p.Interner, instFn)
				result.Funcs = append(result.Funcs, FunctionResult{DefID: instID, MIR: instFn, LIR: lowered})
			}
		} else {
			fr.LIR = lir.LowerFunction(tyCtx, p.Interner, fn)
		}

		result.Funcs = append(result.Funcs, fr)
	}

	return result
}

// groupInstantiationArgs assembles one positional argument list per
// distinct call site from the solver's flat (function, paramIndex, ty)
// witness table. A generic function with N type parameters needs all N
// bound before Instantiate can substitute its template, so a witness set
// shorter than Generics is incomplete (e.g. a parameter only constrained
// through a bound the solver couldn't resolve) and is skipped rather than
// instantiated with missing arguments.
func groupInstantiationArgs(generics []hir.GenericParam, witnesses []types.TyID) [][]types.TyID {
	if len(witnesses) == 0 || len(generics) == 0 {
		return nil
	}
	if len(witnesses) < len(generics) {
		return nil
	}
	// The solver records one witness per (function, paramIndex) pair seen
	// during a single Solve(), and RunFile sorts them by paramIndex, so for
	// one file the flattened slice matches one call site's positional order.
	return [][]types.TyID{witnesses[:len(generics)]}
}

// Run fans RunFile out across inputs concurrently via errgroup, returning
// one FileResult per input in the same order as inputs. A panic inside one
// file's pipeline is not recovered here — a pipeline bug is a programming
// error the caller should see crash loudly, not a diagnosable file error.
func (p *Pipeline) Run(ctx context.Context, inputs []FileInput) ([]*FileResult, error) {
	results := make([]*FileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			results[i] = p.RunFile(gctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("driver: pipeline run: %w", err)
	}
	return results, nil
}
