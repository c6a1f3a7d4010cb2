package prompts

import "testing"

func TestCatalog_RegisterAndGet(t *testing.T) {
	c := NewCatalog()
	c.Register(EmbeddedPrompt{Key: "b.key", Text: "second"})
	c.Register(EmbeddedPrompt{Key: "a.key", Text: "first", Description: "the first prompt"})

	p, ok := c.Get("a.key")
	if !ok {
		t.Fatal("Get(a.key) not found")
	}
	if p.Hash != HashText("first") {
		t.Errorf("Hash = %q, want hash of text", p.Hash)
	}

	text, err := c.Text("b.key")
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if text != "second" {
		t.Errorf("Text() = %q, want %q", text, "second")
	}

	if _, err := c.Text("missing"); err == nil {
		t.Error("Text(missing) expected error, got nil")
	}

	all := c.All()
	if len(all) != 2 || all[0].Key != "a.key" || all[1].Key != "b.key" {
		t.Errorf("All() not sorted by key: %+v", all)
	}
}

func TestHashText_Stable(t *testing.T) {
	if HashText("x") != HashText("x") {
		t.Fatal("HashText not deterministic")
	}
	if HashText("x") == HashText("y") {
		t.Fatal("HashText collision on different input")
	}
}
