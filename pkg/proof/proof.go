// Package proof derives reproducible digests over validation runs. A proof
// commits to the exact input file, the schema it was validated against, and
// the resulting manifest, so a third party holding the same inputs and salt
// can recompute and compare.
package proof

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

// Version identifies the proof digest scheme. Bump on any change to what
// gets hashed or how.
const Version = "1"

// Proof is the reproducible record of one validation run. Digest is
// deterministic for identical inputs and salt; GeneratedAt is metadata
// only and never hashed.
type Proof struct {
	Version        string    `json:"version"`
	Schema         string    `json:"schema"`
	TableDigest    string    `json:"tableDigest"`
	SchemaDigest   string    `json:"schemaDigest"`
	ManifestDigest string    `json:"manifestDigest"`
	Salt           string    `json:"salt,omitempty"`
	Digest         string    `json:"digest"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

// DigestTable hashes the canonical TSV serialization of a table.
func DigestTable(table *sdrf.Table) (string, error) {
	var buf bytes.Buffer
	if err := table.WriteTSV(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize table: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

// DigestSchema hashes the canonical JSON form of a resolved schema.
func DigestSchema(sch *schema.Schema) (string, error) {
	canonical, err := canonicalJSON(sch)
	if err != nil {
		return "", fmt.Errorf("failed to serialize schema: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// DigestManifest hashes the canonical JSON form of a manifest. Manifests
// are canonically ordered at construction, so equal findings always hash
// equal regardless of processing order.
func DigestManifest(manifest *sdrf.Manifest) (string, error) {
	canonical, err := canonicalJSON(manifest)
	if err != nil {
		return "", fmt.Errorf("failed to serialize manifest: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Generate builds the proof for one validation run. The same table, schema,
// manifest and salt always yield the same Digest; a different salt yields a
// different Digest over identical inputs.
func Generate(table *sdrf.Table, sch *schema.Schema, manifest *sdrf.Manifest, salt string) (*Proof, error) {
	tableDigest, err := DigestTable(table)
	if err != nil {
		return nil, err
	}
	schemaDigest, err := DigestSchema(sch)
	if err != nil {
		return nil, err
	}
	manifestDigest, err := DigestManifest(manifest)
	if err != nil {
		return nil, err
	}

	p := &Proof{
		Version:        Version,
		Schema:         sch.Name,
		TableDigest:    tableDigest,
		SchemaDigest:   schemaDigest,
		ManifestDigest: manifestDigest,
		Salt:           salt,
		GeneratedAt:    time.Now().UTC(),
	}
	digest, err := p.compute()
	if err != nil {
		return nil, err
	}
	p.Digest = digest
	return p, nil
}

// Verify recomputes the digest from the proof's hashed fields and reports
// whether it matches.
func (p *Proof) Verify() (bool, error) {
	digest, err := p.compute()
	if err != nil {
		return false, err
	}
	return digest == p.Digest, nil
}

// compute hashes the commitment fields. GeneratedAt and the display schema
// name are deliberately excluded: re-running a validation must reproduce
// the digest, and SchemaDigest already pins the schema content.
func (p *Proof) compute() (string, error) {
	canonical, err := canonicalJSON(map[string]string{
		"version":        p.Version,
		"tableDigest":    p.TableDigest,
		"schemaDigest":   p.SchemaDigest,
		"manifestDigest": p.ManifestDigest,
		"salt":           p.Salt,
	})
	if err != nil {
		return "", err
	}
	sum := sha512.Sum512(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON produces byte-stable JSON: objects are re-marshaled through
// a map so keys come out sorted, with no indentation.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
