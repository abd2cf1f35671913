// Package contract implements the semantic cross-reference validation of
// program specification documents.
//
// It builds an index of known phases and their declared contracts, then walks
// every reference site (phase inputs, output composition build expressions,
// retry policies, fallbacks, the return contract) checking that each reference
// points at something that exists and is well-formed. Checks are best-effort:
// every violation is collected, none aborts the rest of the document.
//
// Validation is two-pass: all per-phase indexes are built before any reference
// is resolved, so results never depend on mapping iteration order. Map-like
// structures are enumerated in sorted key order, which makes the issue
// sequence byte-identical across runs.
package contract
