package htmlutil

import (
	"reflect"
	"testing"
)

const testHTML = `
<html><head><title>Les  Pages</title><style>p { color: red }</style></head>
<body>
<h1>Bonjour</h1>
<p>Le chien <b>noir</b> dort.</p>
<ul><li>Un <span>mot</span></li><li>Deux</li><li>Deux</li></ul>
<script>var x = "ignore me";</script>
<div>Fin<br>Ligne</div>
</body></html>
`

func TestExtractLines(t *testing.T) {
	doc, err := LoadString(testHTML)
	if err != nil {
		t.Fatal(err)
	}
	got := ExtractLines(doc)
	want := []string{
		"Les Pages",
		"Bonjour",
		"Le chien noir dort.",
		"Un mot",
		"Deux",
		"Fin",
		"Ligne",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLines = %q, want %q", got, want)
	}
}

func TestTitle(t *testing.T) {
	doc, err := LoadString(testHTML)
	if err != nil {
		t.Fatal(err)
	}
	if got := Title(doc); got != "Les Pages" {
		t.Errorf("Title = %q, want %q", got, "Les Pages")
	}

	empty, err := LoadString("<html><body><p>x</p></body></html>")
	if err != nil {
		t.Fatal(err)
	}
	if got := Title(empty); got != "" {
		t.Errorf("Title = %q, want empty", got)
	}
}
