package tdfcore

import (
	"archive/zip"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tamperdoc/tdfcore/internal/codec"
	"github.com/tamperdoc/tdfcore/merkle"
	"github.com/tamperdoc/tdfcore/revocation"
	"github.com/tamperdoc/tdfcore/sign"
)

// Container entry names (spec §4.6 "Container layout"). No entry may carry
// a path outside this closed schema; assets live under assetPrefix.
const (
	entryManifest    = "manifest"
	entryContent     = "content"
	entryStyles      = "styles"
	entryLayout      = "layout"
	entryData        = "data"
	entryHashes      = "hashes"
	entrySignatures  = "signatures"
	entryRevocation  = "revocation"
	assetPrefix      = "assets/"
)

// fixedComponentEntries lists every non-asset entry name the schema
// recognizes, required or optional.
var fixedComponentEntries = map[string]bool{
	entryManifest:   true,
	entryContent:    true,
	entryStyles:     true,
	entryLayout:     true,
	entryData:       true,
	entryHashes:     true,
	entrySignatures: true,
	entryRevocation: true,
}

// SignerRequest names one signature the builder must produce over the
// archive's root (spec §4.6 build step 6).
type SignerRequest struct {
	Key         *sign.PrivateKey
	SignerID    string
	DisplayName string
	Scope       sign.Scope
	Timestamp   sign.Timestamp
}

// merkleMaxNodes bounds the recompute cost of a single Build/Verify call in
// terms of the archive's declared file-count ceiling: each level of n nodes
// yields ceil(n/2) nodes (one per pair plus at most one promoted tail), so
// the total over all levels of a tree over n leaves stays below 2n
// (spec §4.2 "recompute time must be bounded").
func merkleMaxNodes(policy Policy, componentCount int) int {
	bound := policy.MaxFileCount
	if componentCount > bound {
		bound = componentCount
	}
	return 2 * bound
}

// BuildArchive runs the build sequence of spec §4.6 and writes a ZIP
// container to w. doc.Manifest.Integrity.Algorithm is overwritten with
// algo; doc.Manifest.Integrity.Root is overwritten with the computed root.
//
// A panic anywhere in the build sequence is contained here and reported as
// PolicyViolation("internal") rather than crashing the caller; full detail
// goes to the audit channel (spec §7, §9).
func BuildArchive(w io.Writer, doc *Document, algo merkle.Algorithm, signers []SignerRequest, revocationList *revocation.List, policy Policy) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			policy.audit().Error("tdfcore: build panicked", "panic", rec)
			err = &PolicyViolationError{What: "internal"}
		}
	}()

	// 1. Validate the document model.
	if err := doc.Validate(); err != nil {
		return err
	}
	if !merkle.IsSupported(algo) {
		return merkle.ErrAlgoUnsupported
	}

	cborCodec, err := codec.NewCBORCodec(policy.MaxCBORSize, policy.MaxCBORDepth)
	if err != nil {
		return err
	}

	// 2. Serialize manifest (with root sentinel), content, styles, layout,
	// data; collect assets.
	manifest := doc.Manifest
	manifest.Integrity.Algorithm = string(algo)
	sentinelManifest := manifest.withSentinelRoot()
	manifestBytes, err := MarshalManifest(cborCodec, sentinelManifest)
	if err != nil {
		return err
	}
	contentBytes, err := cborCodec.Marshal(doc.Content)
	if err != nil {
		return err
	}
	stylesBytes := []byte(doc.Styles)

	components := NewComponentSet()
	put := func(path string, data []byte) error {
		if err := components.Put(path, data); err != nil {
			return err
		}
		return checkEntrySize(data, policy)
	}
	if err := put(entryManifest, manifestBytes); err != nil {
		return err
	}
	if err := put(entryContent, contentBytes); err != nil {
		return err
	}
	if err := put(entryStyles, stylesBytes); err != nil {
		return err
	}
	if doc.Layout != nil {
		if err := put(entryLayout, doc.Layout); err != nil {
			return err
		}
	}
	if doc.Data != nil {
		if err := put(entryData, doc.Data); err != nil {
			return err
		}
	}
	assetPaths := make([]string, 0, len(doc.Assets))
	for name := range doc.Assets {
		assetPaths = append(assetPaths, name)
	}
	sort.Strings(assetPaths)
	for _, name := range assetPaths {
		if err := put(assetPrefix+name, doc.Assets[name]); err != nil {
			return err
		}
	}
	// 3. Path validation and size policy already applied per-Put above.

	// 4. Compute the Merkle root over the component set.
	maxNodes := merkleMaxNodes(policy, components.Len())
	tree, err := merkle.Build(algo, components.Leaves(), maxNodes)
	if err != nil {
		return err
	}

	// 5. Inject the root into the manifest; re-serialize.
	manifest.Integrity.Root = hex.EncodeToString(tree.Root)
	finalManifestBytes, err := MarshalManifest(cborCodec, manifest)
	if err != nil {
		return err
	}
	if err := components.Put(entryManifest, finalManifestBytes); err != nil {
		return err
	}

	// 6. For each requested signer, invoke the signature engine.
	expectedRootLen, err := merkle.OutputSize(algo)
	if err != nil {
		return err
	}
	records := make([]sign.Record, 0, len(signers))
	for _, s := range signers {
		rec, err := sign.Sign(s.Key, tree.Root, s.Scope, s.SignerID, s.DisplayName, s.Timestamp, expectedRootLen)
		if err != nil {
			return fmt.Errorf("tdfcore: signing for %q: %w", s.SignerID, err)
		}
		records = append(records, rec)
	}

	// 7. Serialize `hashes` and `signatures`.
	hashesBytes, err := EncodeHashes(algo, tree.Root, tree.LeafHashes)
	if err != nil {
		return err
	}
	signaturesBytes, err := EncodeSignatures(cborCodec, records)
	if err != nil {
		return err
	}
	var revocationBytes []byte
	if revocationList != nil {
		revocationBytes, err = EncodeRevocationList(cborCodec, *revocationList)
		if err != nil {
			return err
		}
	}

	// 8. Write the ZIP.
	zw := zip.NewWriter(w)
	writeEntry := func(name string, data []byte) error {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		_, err = fw.Write(data)
		return err
	}
	if err := writeEntry(entryManifest, finalManifestBytes); err != nil {
		return err
	}
	if err := writeEntry(entryContent, contentBytes); err != nil {
		return err
	}
	if err := writeEntry(entryStyles, stylesBytes); err != nil {
		return err
	}
	if doc.Layout != nil {
		if err := writeEntry(entryLayout, doc.Layout); err != nil {
			return err
		}
	}
	if doc.Data != nil {
		if err := writeEntry(entryData, doc.Data); err != nil {
			return err
		}
	}
	if err := writeEntry(entryHashes, hashesBytes); err != nil {
		return err
	}
	if err := writeEntry(entrySignatures, signaturesBytes); err != nil {
		return err
	}
	if revocationBytes != nil {
		if err := writeEntry(entryRevocation, revocationBytes); err != nil {
			return err
		}
	}
	for _, name := range assetPaths {
		if err := writeEntry(assetPrefix+name, doc.Assets[name]); err != nil {
			return err
		}
	}
	return zw.Close()
}

func checkEntrySize(data []byte, policy Policy) error {
	if policy.MaxFileSizeBytes > 0 && int64(len(data)) > policy.MaxFileSizeBytes {
		return &PolicyViolationError{What: "max_file_size_bytes"}
	}
	return nil
}

// ArchiveContents is the fully decoded, policy-checked, but not-yet-verified
// form of a container: everything the read sequence of spec §4.6 produces
// before root recomputation and signature evaluation (C7's job).
type ArchiveContents struct {
	Manifest   Manifest
	Document   Document
	Components *ComponentSet
	Signatures []sign.Record
	Revocation *revocation.List
}

// ReadContext is the audit-facing record of what a read last decoded
// successfully: every component path and its decoded byte size. It never
// carries content bytes, so passing it to a logger cannot leak document
// contents (spec §7 "audit channel").
type ReadContext struct {
	Paths []string
	Sizes map[string]int64
}

// ErrNoReadContext signals GetLastReadContext was called before any read
// completed successfully (grounded on the teacher's
// ErrLogContextNotRead/SignedRootReader.GetLastReadContext).
var ErrNoReadContext = errors.New("tdfcore: archive has not been successfully read yet")

// ArchiveReader wraps ReadArchive with a GetLastReadContext introspection
// point: callers that need audit/debug visibility into what was actually
// decoded — without that detail ever reaching the verification Report —
// keep one of these across calls instead of calling the package-level
// ReadArchive directly.
type ArchiveReader struct {
	lastContext ReadContext
	read        bool
}

// GetLastReadContext returns a copy of the most recently completed read's
// context, or ErrNoReadContext if Read has never succeeded.
func (ar *ArchiveReader) GetLastReadContext() (ReadContext, error) {
	if !ar.read {
		return ReadContext{}, ErrNoReadContext
	}
	return ar.lastContext, nil
}

// Read behaves exactly like the package-level ReadArchive, additionally
// recording the read context for later GetLastReadContext calls.
func (ar *ArchiveReader) Read(r io.ReaderAt, size int64, policy Policy) (*ArchiveContents, error) {
	contents, err := ReadArchive(r, size, policy)
	if err != nil {
		return nil, err
	}
	paths := contents.Components.Paths()
	sizes := make(map[string]int64, len(paths))
	for _, p := range paths {
		if b, ok := contents.Components.Get(p); ok {
			sizes[p] = int64(len(b))
		}
	}
	ar.lastContext = ReadContext{Paths: paths, Sizes: sizes}
	ar.read = true
	return contents, nil
}

// ReadArchive runs spec §4.6's read steps 1-3: entry-policy enforcement
// before decompression, bounded structured decode, and component-set
// reassembly. It does not recompute the root or evaluate signatures; that
// is Verify's job (C7, spec §4.7), so a caller who only needs the raw
// decoded model without a verdict can still use this entry point.
//
// A panic anywhere in the read sequence is contained here and reported as
// PolicyViolation("internal") rather than crashing the caller; full detail
// goes to the audit channel (spec §7, §9).
func ReadArchive(r io.ReaderAt, size int64, policy Policy) (contents *ArchiveContents, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			policy.audit().Error("tdfcore: archive read panicked", "panic", rec)
			contents, err = nil, &PolicyViolationError{What: "internal"}
		}
	}()

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	// 1. Enforce per-entry size/count and decompression-ratio policy
	// before decompression.
	if policy.MaxFileCount > 0 && len(zr.File) > policy.MaxFileCount {
		return nil, &PolicyViolationError{What: "max_file_count"}
	}
	for _, f := range zr.File {
		if err := validateEntryName(f.Name); err != nil {
			return nil, err
		}
		compressed := int64(f.CompressedSize64)
		uncompressed := int64(f.UncompressedSize64)
		if err := codec.CheckCompressionRatio(compressed, uncompressed, policy.MaxDecompressionRatio, policy.MaxFileSizeBytes); err != nil {
			return nil, &PolicyViolationError{What: "max_decompression_ratio"}
		}
		if policy.MaxFileSizeBytes > 0 && uncompressed > policy.MaxFileSizeBytes {
			return nil, &PolicyViolationError{What: "max_file_size_bytes"}
		}
	}

	// 2. Decode components under bounded-decode limits.
	cborCodec, err := codec.NewCBORCodec(policy.MaxCBORSize, policy.MaxCBORDepth)
	if err != nil {
		return nil, err
	}

	raw := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		data, err := codec.ReadBounded(rc, policy.MaxFileSizeBytes)
		closeErr := rc.Close()
		if errors.Is(err, codec.ErrLimitExceeded) {
			return nil, &PolicyViolationError{What: "max_file_size_bytes"}
		}
		if err != nil {
			return nil, fmt.Errorf("tdfcore: reading entry %q: %w", f.Name, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("tdfcore: closing entry %q: %w", f.Name, closeErr)
		}
		raw[f.Name] = data
		if err := policy.Budget.ConsumeMemory(int64(len(data))); err != nil {
			return nil, err
		}
		if err := policy.Budget.ConsumeOps(1); err != nil {
			return nil, err
		}
	}

	manifestBytes, ok := raw[entryManifest]
	if !ok {
		return nil, &MissingComponentError{Name: entryManifest}
	}
	contentBytes, ok := raw[entryContent]
	if !ok {
		return nil, &MissingComponentError{Name: entryContent}
	}
	stylesBytes, ok := raw[entryStyles]
	if !ok {
		return nil, &MissingComponentError{Name: entryStyles}
	}

	var manifest Manifest
	if err := cborCodec.DecodeInto(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	var content Content
	if err := cborCodec.DecodeInto(contentBytes, &content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	doc := Document{
		Manifest: manifest,
		Content:  content,
		Styles:   string(stylesBytes),
		Layout:   raw[entryLayout],
		Data:     raw[entryData],
		Assets:   make(map[string][]byte),
	}

	// 3. Re-assemble the component set exactly as the builder did: the
	// manifest entry carries the sentinel root, not the real one, since
	// the commitment was computed over the sentinel form (spec §4.2
	// "Manifest self-reference", §9).
	components := NewComponentSet()
	sentinelManifest := manifest.withSentinelRoot()
	sentinelManifestBytes, err := MarshalManifest(cborCodec, sentinelManifest)
	if err != nil {
		return nil, err
	}
	if err := components.Put(entryManifest, sentinelManifestBytes); err != nil {
		return nil, err
	}
	if err := components.Put(entryContent, contentBytes); err != nil {
		return nil, err
	}
	if err := components.Put(entryStyles, stylesBytes); err != nil {
		return nil, err
	}
	if v, ok := raw[entryLayout]; ok {
		if err := components.Put(entryLayout, v); err != nil {
			return nil, err
		}
	}
	if v, ok := raw[entryData]; ok {
		if err := components.Put(entryData, v); err != nil {
			return nil, err
		}
	}
	for name, data := range raw {
		if !strings.HasPrefix(name, assetPrefix) {
			continue
		}
		if err := components.Put(name, data); err != nil {
			return nil, err
		}
		doc.Assets[strings.TrimPrefix(name, assetPrefix)] = data
	}

	contents = &ArchiveContents{Manifest: manifest, Document: doc, Components: components}

	if sigBytes, ok := raw[entrySignatures]; ok {
		records, err := DecodeSignatures(cborCodec, sigBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		contents.Signatures = records
	}
	if revBytes, ok := raw[entryRevocation]; ok {
		list, err := DecodeRevocationList(cborCodec, revBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		contents.Revocation = &list
	}

	return contents, nil
}

// validateEntryName enforces spec §4.6's closed entry schema: either one of
// the fixed component names, or an `assets/…` path that itself passes path
// validation (spec §4.1).
func validateEntryName(name string) error {
	if fixedComponentEntries[name] {
		return nil
	}
	if strings.HasPrefix(name, assetPrefix) {
		rest := strings.TrimPrefix(name, assetPrefix)
		if err := codec.ValidatePath(rest); err != nil {
			return &PolicyViolationError{What: "path"}
		}
		return nil
	}
	return &PolicyViolationError{What: "path"}
}
