package ruleta_test

import (
	"reflect"
	"testing"

	"github.com/playperu/ruleta/internal/ruleta"
)

func questionCounts(c []ruleta.Category) map[string]int {
	out := make(map[string]int, len(c))
	for _, cat := range c {
		out[cat.Name] = len(cat.Questions)
	}
	return out
}

func TestMergeAddsToMatchingCategory(t *testing.T) {
	catalog := ruleta.DefaultCatalog()
	before := questionCounts(catalog)

	custom := []ruleta.CustomQuestion{{ID: "1", Question: "¿Dónde naciste?", Category: "Mi Mundo"}}
	merged := ruleta.Merge(catalog, custom)

	after := questionCounts(merged)
	for name, n := range before {
		want := n
		if name == "Mi Mundo" {
			want = 11
		}
		if after[name] != want {
			t.Errorf("%s: %d questions, want %d", name, after[name], want)
		}
	}

	mundo := merged[1]
	if got := mundo.Questions[len(mundo.Questions)-1]; got != "¿Dónde naciste?" {
		t.Errorf("custom question not appended last, got %q", got)
	}
	if len(catalog[1].Questions) != 10 {
		t.Error("merge modified the catalog")
	}
}

func TestMergePreservesCustomOrder(t *testing.T) {
	catalog := []ruleta.Category{{Name: "A", Questions: []string{"a0"}}}
	custom := []ruleta.CustomQuestion{
		{Question: "newest", Category: "A"},
		{Question: "older", Category: "A"},
	}

	got := ruleta.Merge(catalog, custom)[0].Questions
	want := []string{"a0", "newest", "older"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("questions = %v, want %v", got, want)
	}
}

func TestMergeDropsUnmatchedCategory(t *testing.T) {
	catalog := ruleta.DefaultCatalog()
	base := []ruleta.CustomQuestion{{Question: "q", Category: "Mar de Emociones"}}
	orphan := ruleta.CustomQuestion{Question: "lost", Category: "Categoría Borrada"}

	without := ruleta.Merge(catalog, base)
	with := ruleta.Merge(catalog, append(base, orphan))

	if !reflect.DeepEqual(without, with) {
		t.Fatal("orphaned custom question changed the merged categories")
	}
	if len(with) != len(catalog) {
		t.Fatalf("cardinality = %d, want %d", len(with), len(catalog))
	}
	for i := range catalog {
		if with[i].Name != catalog[i].Name {
			t.Errorf("order changed at %d: %q != %q", i, with[i].Name, catalog[i].Name)
		}
	}

	orphans := ruleta.Orphans(catalog, append(base, orphan))
	if len(orphans) != 1 || orphans[0].Question != "lost" {
		t.Fatalf("orphans = %+v", orphans)
	}
}

func TestMergeIdempotent(t *testing.T) {
	catalog := ruleta.DefaultCatalog()
	custom := []ruleta.CustomQuestion{
		{Question: "x", Category: "Caja de Sorpresas"},
		{Question: "y", Category: "Misiones Especiales"},
	}

	first := ruleta.Merge(catalog, custom)
	second := ruleta.Merge(catalog, custom)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("merge is not idempotent")
	}
}

func TestMergeEmptyCatalog(t *testing.T) {
	got := ruleta.Merge(nil, []ruleta.CustomQuestion{{Question: "q", Category: "A"}})
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestOwnerKey(t *testing.T) {
	if k := ruleta.SessionOwner("abc").Key(); k != "session:abc" {
		t.Errorf("key = %q", k)
	}
	if ruleta.UserOwner("").Valid() {
		t.Error("owner without id should be invalid")
	}
	if !ruleta.UserOwner("u1").Valid() {
		t.Error("user owner should be valid")
	}
}
