// Package document models a parsed specification document as an explicit
// tagged-union tree (Object/Array/String/Number/Bool/Null).
//
// The tree is read-only once decoded. Field access always returns an ok flag
// so a missing element is visible to the caller instead of being masked by a
// zero value. Object key enumeration is sorted, which keeps error reporting
// order-stable across runs.
package document
