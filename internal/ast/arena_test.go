package ast

import (
	"encoding/json"
	"testing"

	"ember/internal/source"
)

func TestFileRoundTripsThroughJSON(t *testing.T) {
	f := NewFile(1)
	name := source.Symbol(7)

	lit := f.Exprs.Allocate(Expr{Kind: ExprLiteral, Literal: LiteralExprData{Kind: LiteralInt, Int: 42}})
	body := f.Exprs.Allocate(Expr{Kind: ExprBlock, Block: BlockExprData{Tail: ExprID(lit)}})
	item := f.Items.Allocate(Item{Kind: ItemFunction, Name: name, Function: FunctionItem{Body: ExprID(body)}})
	f.TopLevel = []ItemID{ItemID(item)}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded File
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Items.Len() != 1 {
		t.Fatalf("expected one item, got %d", decoded.Items.Len())
	}
	got := decoded.Item(ItemID(1))
	if got == nil || got.Name != name || got.Kind != ItemFunction {
		t.Fatalf("unexpected decoded item: %+v", got)
	}
	if len(decoded.TopLevel) != 1 || decoded.TopLevel[0] != ItemID(item) {
		t.Fatalf("unexpected TopLevel: %+v", decoded.TopLevel)
	}

	decodedBody := decoded.Expr(ExprID(body))
	if decodedBody == nil || decodedBody.Kind != ExprBlock {
		t.Fatalf("unexpected decoded body: %+v", decodedBody)
	}
	decodedLit := decoded.Expr(decodedBody.Block.Tail)
	if decodedLit == nil || decodedLit.Literal.Int != 42 {
		t.Fatalf("unexpected decoded literal: %+v", decodedLit)
	}
}
