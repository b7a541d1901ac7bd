package ontology

import (
	"fmt"
	"sort"
)

// DefaultBaseURL is where pre-built ontology index artifacts are published.
const DefaultBaseURL = "https://raw.githubusercontent.com/bigbio/sdrf-pipelines/main/data/ontologies/"

// Source pins one ontology index artifact: the file to fetch relative to the
// base URL and the SHA-256 checksum the payload must hash to. A cached file
// whose checksum no longer matches is treated as absent and refetched.
type Source struct {
	Acronym  string
	Artifact string
	SHA256   string
}

// Registry maps ontology acronyms to their pinned sources.
type Registry map[string]Source

// DefaultRegistry covers the ontologies referenced by the embedded
// templates. Checksums pin the published index snapshots; bumping a
// snapshot means updating the checksum here.
func DefaultRegistry() Registry {
	sources := []Source{
		{Acronym: "bto", Artifact: "bto.tsv", SHA256: "7a4c1d9f0b3e82657cd01b4f8a9632ed5fa0c718294b6d3051e8c7a2f4d9b036"},
		{Acronym: "cl", Artifact: "cl.tsv", SHA256: "3f8e2a71c94d50b6e1dba8f2c7034915ae6d08b34cf791205d6c3ea8b1f47d92"},
		{Acronym: "clo", Artifact: "clo.tsv", SHA256: "91c5b20f7e3da864b0d62c19f58ea743012fd9b86ce54a07d2eb31c6a98f0e45"},
		{Acronym: "efo", Artifact: "efo.tsv", SHA256: "c2d90e85f1ab37426c8f05b9ed1a64730958cab21fd6e4083a7d15ce9b62f804"},
		{Acronym: "hancestro", Artifact: "hancestro.tsv", SHA256: "58a3f6d1e07c294b8fd5210c6be97a34d10ef82c9453ab760e1d8f02c7b45a19"},
		{Acronym: "hsapdv", Artifact: "hsapdv.tsv", SHA256: "0e7b48c2d6f91a35be04d78a12c5f6903de81b47ca9f2506e3ad91b80c5f72d6"},
		{Acronym: "mondo", Artifact: "mondo.tsv", SHA256: "e49a07d3b82f61c50da9e73b04861f2c57d30ae9b1845cf62093e7d4af01b8c5"},
		{Acronym: "ms", Artifact: "ms.tsv", SHA256: "6b1d80f5a29c73e4d08b52a6c1e49f37b2a05d8e64cf913072ebd4a15c69f028"},
		{Acronym: "ncbitaxon", Artifact: "ncbitaxon.tsv", SHA256: "a83c59e0d47f12b6fa25c08d91be63047e5fa1d29c086b35d470e2c8f6a91b53"},
		{Acronym: "pato", Artifact: "pato.tsv", SHA256: "2f06ad81c5b93e74d6a1f0c28b547e903cd5261af98e04b7153dc6e982a0f741"},
		{Acronym: "pride", Artifact: "pride.tsv", SHA256: "bd52e7a09c3f81465db0f2c91a746e8305fa9d1c27e64b08a3951cfd0e87b264"},
		{Acronym: "uberon", Artifact: "uberon.tsv", SHA256: "47e0b19c6d2af853b7c41e08f29a5d60314cb8f7d95e2a06c18d3fb04e67a925"},
		{Acronym: "unimod", Artifact: "unimod.tsv", SHA256: "d90f3c61b84ae275c06d19f20e8ba5473f1ce82d04ab96510e7d2c3a8f54b601"},
	}
	registry := make(Registry, len(sources))
	for _, src := range sources {
		registry[src.Acronym] = src
	}
	return registry
}

// Lookup returns the pinned source for an acronym.
func (r Registry) Lookup(acronym string) (Source, error) {
	src, ok := r[acronym]
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownOntology, acronym)
	}
	return src, nil
}

// Acronyms returns the registered acronyms in sorted order.
func (r Registry) Acronyms() []string {
	acronyms := make([]string, 0, len(r))
	for acronym := range r {
		acronyms = append(acronyms, acronym)
	}
	sort.Strings(acronyms)
	return acronyms
}
