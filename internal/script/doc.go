// Package script reads declarative dialogue script files into the raw
// form the engine builds from.
//
// Two codecs are supported: HCL (.talk.hcl) and YAML (.talk.yaml). Both
// decode to the same talk.RawScript; the codecs do no validation beyond
// what parsing requires, leaving defaulting and consistency checks to
// talk.Build so errors are reported uniformly regardless of the source
// format.
package script
