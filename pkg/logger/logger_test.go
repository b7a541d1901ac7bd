package logger

import "testing"

func TestEnabledFor(t *testing.T) {
	tests := []struct {
		name      string
		patterns  string
		namespace string
		want      bool
	}{
		{"empty DEBUG disables", "", "ontology:cache", false},
		{"wildcard enables all", "*", "ontology:cache", true},
		{"exact match", "ontology:cache", "ontology:cache", true},
		{"exact mismatch", "ontology:cache", "schema:store", false},
		{"namespace prefix wildcard", "ontology:*", "ontology:cache", true},
		{"prefix wildcard mismatch", "ontology:*", "schema:store", false},
		{"suffix wildcard", "*:cache", "ontology:cache", true},
		{"middle wildcard", "ontology:*:fetch", "ontology:efo:fetch", true},
		{"multiple patterns", "schema:*,ontology:cache", "ontology:cache", true},
		{"exclusion wins", "ontology:*,-ontology:cache", "ontology:cache", false},
		{"exclusion leaves siblings", "ontology:*,-ontology:cache", "ontology:resolver", true},
		{"whitespace tolerated", " ontology:cache , schema:* ", "schema:store", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := enabledFor(tt.namespace, tt.patterns); got != tt.want {
				t.Errorf("enabledFor(%q, %q) = %v, want %v", tt.namespace, tt.patterns, got, tt.want)
			}
		})
	}
}

func TestDisabledLoggerIsSilent(t *testing.T) {
	l := &Logger{namespace: "test:silent", enabled: false}
	// Must not panic or write anywhere.
	l.Printf("value=%d", 42)
	l.Print("plain")
}
