package phrasetable

import (
	"reflect"
	"strings"
	"testing"

	"github.com/happyhackingspace/werger/decoder"
)

const testTable = `le ||| the ||| -0.1
chien ||| dog ||| -0.2
chien ||| hound ||| -1.5
le chien ||| the dog ||| -0.4
chien ||| doggo ||| -1.5
`

func TestRead(t *testing.T) {
	tbl, err := Read(strings.NewReader(testTable), 0)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Size() != 3 {
		t.Errorf("Size = %d, want 3", tbl.Size())
	}
	if !tbl.Contains([]string{"le", "chien"}) {
		t.Error("expected le chien")
	}
	if tbl.Contains([]string{"chat"}) {
		t.Error("unexpected chat")
	}

	got := tbl.Lookup([]string{"chien"})
	want := []decoder.Phrase{
		{Text: "dog", Logprob: -0.2},
		{Text: "doggo", Logprob: -1.5},
		{Text: "hound", Logprob: -1.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup = %v, want %v", got, want)
	}
}

func TestReadTopK(t *testing.T) {
	tbl, err := Read(strings.NewReader(testTable), 2)
	if err != nil {
		t.Fatal(err)
	}
	got := tbl.Lookup([]string{"chien"})
	want := []decoder.Phrase{
		{Text: "dog", Logprob: -0.2},
		{Text: "doggo", Logprob: -1.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup = %v, want %v", got, want)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []string{
		"le ||| the\n",           // two fields
		"a ||| b ||| -1 ||| c\n", // four fields
		"le ||| the ||| x\n",     // bad log probability
	}
	for _, input := range tests {
		if _, err := Read(strings.NewReader(input), 0); err == nil {
			t.Errorf("Read(%q) succeeded, want error", input)
		}
	}
}
