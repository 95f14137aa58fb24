package rpc

import (
	"context"
	"testing"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/brianmills2718/semantic-hypergraph/internal/kb"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(kb.New())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func requestFor(t *testing.T, svc *Service, method string) *dynamic.Message {
	t.Helper()
	md := svc.sd.FindMethodByName(method)
	if md == nil {
		t.Fatalf("method %s missing from schema", method)
	}
	return dynamic.NewMessage(md.GetInputType())
}

func replyFor(t *testing.T, svc *Service, method string) *dynamic.Message {
	t.Helper()
	md := svc.sd.FindMethodByName(method)
	if md == nil {
		t.Fatalf("method %s missing from schema", method)
	}
	return dynamic.NewMessage(md.GetOutputType())
}

func TestInsertAndGetRoundTrip(t *testing.T) {
	svc := newTestService(t)

	in := requestFor(t, svc, "Insert")
	if err := in.TrySetFieldByName("text", "alice/C"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	out := replyFor(t, svc, "Insert")
	if err := svc.insert(in, out); err != nil {
		t.Fatalf("insert: %v", err)
	}
	id, err := getString(out, "id")
	if err != nil || id == "" {
		t.Fatalf("expected a non-empty id, got %q err=%v", id, err)
	}

	getIn := requestFor(t, svc, "Get")
	if err := getIn.TrySetFieldByName("id", id); err != nil {
		t.Fatalf("set id: %v", err)
	}
	getOut := replyFor(t, svc, "Get")
	if err := svc.get(getIn, getOut); err != nil {
		t.Fatalf("get: %v", err)
	}
	foundVal, err := getOut.TryGetFieldByName("found")
	if err != nil || foundVal != true {
		t.Fatalf("expected found=true, got %v err=%v", foundVal, err)
	}
	text, err := getString(getOut, "text")
	if err != nil || text != "alice/C" {
		t.Fatalf("expected alice/C back, got %q err=%v", text, err)
	}
}

func TestGetMissingIDReportsNotFound(t *testing.T) {
	svc := newTestService(t)

	in := requestFor(t, svc, "Get")
	if err := in.TrySetFieldByName("id", "does-not-exist"); err != nil {
		t.Fatalf("set id: %v", err)
	}
	out := replyFor(t, svc, "Get")
	if err := svc.get(in, out); err != nil {
		t.Fatalf("get: %v", err)
	}
	foundVal, err := out.TryGetFieldByName("found")
	if err != nil || foundVal != false {
		t.Fatalf("expected found=false, got %v err=%v", foundVal, err)
	}
}

func TestMatchReturnsBinding(t *testing.T) {
	svc := newTestService(t)

	in := requestFor(t, svc, "Match")
	if err := in.TrySetFieldByName("pattern", "$X/C"); err != nil {
		t.Fatalf("set pattern: %v", err)
	}
	if err := in.TrySetFieldByName("text", "alice/C"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	out := replyFor(t, svc, "Match")
	if err := svc.match(in, out); err != nil {
		t.Fatalf("match: %v", err)
	}

	raw, err := out.TryGetFieldByName("bindings")
	if err != nil {
		t.Fatalf("get bindings: %v", err)
	}
	list, _ := raw.([]interface{})
	if len(list) != 1 {
		t.Fatalf("expected exactly one binding, got %d", len(list))
	}
	bMsg, ok := list[0].(*dynamic.Message)
	if !ok {
		t.Fatalf("expected a *dynamic.Message binding entry, got %T", list[0])
	}
	valuesVal, err := bMsg.TryGetFieldByName("values")
	if err != nil {
		t.Fatalf("get values: %v", err)
	}
	values, ok := valuesVal.(map[interface{}]interface{})
	if !ok {
		t.Fatalf("expected a map, got %T", valuesVal)
	}
	if values["X"] != "alice/C" {
		t.Fatalf("expected X bound to alice/C, got %v", values["X"])
	}
}

func TestInferRunsRuleToFixedPoint(t *testing.T) {
	svc := newTestService(t)

	seedIn := requestFor(t, svc, "Insert")
	if err := seedIn.TrySetFieldByName("text", "(likes/P alice/C bananas/C)"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	seedOut := replyFor(t, svc, "Insert")
	if err := svc.insert(seedIn, seedOut); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	ruleText := `
rule tag priority=1 idempotent
  antecedent: (likes/P $S $O)
  consequent: EMIT tagged/C
`
	in := requestFor(t, svc, "Infer")
	if err := in.TrySetFieldByName("rules", []interface{}{ruleText}); err != nil {
		t.Fatalf("set rules: %v", err)
	}
	out := replyFor(t, svc, "Infer")
	if err := svc.infer(context.Background(), in, out); err != nil {
		t.Fatalf("infer: %v", err)
	}

	edges, err := getStringList(out, "edges")
	if err != nil {
		t.Fatalf("get edges: %v", err)
	}
	var sawTagged bool
	for _, e := range edges {
		if e == "tagged/C" {
			sawTagged = true
		}
	}
	if !sawTagged {
		t.Fatalf("expected tagged/C among resulting edges, got %v", edges)
	}
}
