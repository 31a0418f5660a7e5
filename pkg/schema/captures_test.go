package schema

import (
	"reflect"
	"testing"
)

func TestAnnotateManifest(t *testing.T) {
	manifest, err := CompileManifest()
	if err != nil {
		t.Fatalf("CompileManifest failed: %v", err)
	}
	anns := manifest.Annotate(decodeJSON(t, validManifestJSON))

	t.Run("inline captures beside a $ref", func(t *testing.T) {
		icon := anns["/Icon"]
		if icon.FilePath == nil {
			t.Fatal("Expected filePath annotation for /Icon")
		}
		if !reflect.DeepEqual(icon.FilePath.Extensions, []string{".svg", ".png", ".gif"}) {
			t.Errorf("Extensions = %v", icon.FilePath.Extensions)
		}
		if icon.FilePath.IncludeExtension {
			t.Error("IncludeExtension should be false for image paths")
		}
		if !reflect.DeepEqual(icon.ImageDimensions, []int{288, 288}) {
			t.Errorf("ImageDimensions = %v, expected [288 288]", icon.ImageDimensions)
		}
	})

	t.Run("captures reached through $defs", func(t *testing.T) {
		state := anns["/Actions/0/States/0/Image"]
		if state.FilePath == nil {
			t.Fatal("Expected filePath annotation for state image")
		}
		if !reflect.DeepEqual(state.ImageDimensions, []int{144, 144}) {
			t.Errorf("ImageDimensions = %v, expected [144 144]", state.ImageDimensions)
		}

		uuid := anns["/UUID"]
		if uuid.ErrorMessage == "" {
			t.Error("Expected errorMessage annotation for /UUID")
		}
	})

	t.Run("extension-bearing paths", func(t *testing.T) {
		code := anns["/CodePath"]
		if code.FilePath == nil || !code.FilePath.IncludeExtension {
			t.Errorf("CodePath annotation = %+v, expected IncludeExtension", code.FilePath)
		}

		layout := anns["/Actions/0/Encoder/layout"]
		if layout.FilePath == nil || !layout.FilePath.IncludeExtension {
			t.Errorf("Encoder layout annotation = %+v, expected IncludeExtension", layout.FilePath)
		}
	})

	t.Run("only paths present in the document", func(t *testing.T) {
		if _, ok := anns["/CategoryIcon"]; ok {
			t.Error("Annotation recorded for a property the document does not declare")
		}
	})
}

func TestAnnotateDoesNotLeakBetweenDocuments(t *testing.T) {
	manifest, err := CompileManifest()
	if err != nil {
		t.Fatalf("CompileManifest failed: %v", err)
	}

	full := manifest.Annotate(decodeJSON(t, validManifestJSON))
	if _, ok := full["/Icon"]; !ok {
		t.Fatal("Expected /Icon annotation for the full document")
	}

	bare := manifest.Annotate(decodeJSON(t, `{"Name": "Counter"}`))
	if _, ok := bare["/Icon"]; ok {
		t.Error("Annotation from a previous document leaked into the next result")
	}

	// The earlier result must be untouched by later calls.
	if _, ok := full["/Icon"]; !ok {
		t.Error("Earlier annotation set mutated by a later call")
	}
}

func TestResolveRef(t *testing.T) {
	root := map[string]any{
		"$defs": map[string]any{
			"uuid": map[string]any{"type": "string"},
			"odd~name": map[string]any{
				"with/slash": map[string]any{"enum": []any{"x"}},
			},
		},
	}

	tests := []struct {
		name  string
		ref   string
		found bool
	}{
		{"simple def", "#/$defs/uuid", true},
		{"escaped segments", "#/$defs/odd~0name/with~1slash", true},
		{"missing target", "#/$defs/nope", false},
		{"external ref ignored", "https://example.com/schema.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveRef(root, tt.ref)
			if (got != nil) != tt.found {
				t.Errorf("resolveRef(%q) found=%v, expected %v", tt.ref, got != nil, tt.found)
			}
		})
	}
}
