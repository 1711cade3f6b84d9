package utils

import (
	"testing"
)

type payload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestSmartParseStandardJSON(t *testing.T) {
	var out payload
	if err := SmartParse(`{"name": "x", "price": 10}`, &out); err != nil {
		t.Fatalf("standard json failed: %v", err)
	}
	if out.Name != "x" || out.Price != 10 {
		t.Errorf("decoded %+v", out)
	}
}

func TestSmartParseFenced(t *testing.T) {
	var out payload
	input := "```json\n{\"name\": \"fenced\", \"price\": 5}\n```"
	if err := SmartParse(input, &out); err != nil {
		t.Fatalf("fenced json failed: %v", err)
	}
	if out.Name != "fenced" {
		t.Errorf("decoded %+v", out)
	}
}

func TestSmartParseRepairsSingleQuotes(t *testing.T) {
	var out payload
	if err := SmartParse(`{'name': 'q', 'price': 3,}`, &out); err != nil {
		t.Fatalf("repairable json failed: %v", err)
	}
	if out.Name != "q" {
		t.Errorf("decoded %+v", out)
	}
}

func TestSmartParseHjsonUnquotedKeys(t *testing.T) {
	var out payload
	input := "{\n  name: loose\n  price: 7\n}"
	if err := SmartParse(input, &out); err != nil {
		t.Fatalf("hjson input failed: %v", err)
	}
	if out.Name != "loose" || out.Price != 7 {
		t.Errorf("decoded %+v", out)
	}
}

func TestSmartParseRejectsProse(t *testing.T) {
	var out payload
	if err := SmartParse("sorry, I can't produce JSON today", &out); err == nil {
		t.Error("expected failure on prose input")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\nplain\n```":         "plain",
		`{"a":1}`:                 `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripCodeFences(in); got != want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanNarrative(t *testing.T) {
	in := "Sure, here's my take:\nBuy it now, the price is at a low."
	got := CleanNarrative(in)
	if got != "Buy it now, the price is at a low." {
		t.Errorf("CleanNarrative = %q", got)
	}
}

func TestValidMarkdown(t *testing.T) {
	for _, in := range []string{
		"Buy it now, the price is at a low.",
		"**Recommendation:** wait\n\n- price above average\n- trend rising",
		"",
	} {
		if !ValidMarkdown(in) {
			t.Errorf("ValidMarkdown(%q) = false", in)
		}
	}
}
