// Package source decodes seismic source-model description files: XML with a
// sourceModel root, sourceGroup children grouped by tectonic region, and
// per-source field elements holding scalars or homogeneous numeric arrays.
//
// Decoding is two-phase: Decode parses the document structure (group and
// record identity) and keeps field text raw; Record.Fields materializes the
// field mapping and is where per-record value errors surface, so callers can
// apply their record-error policy one record at a time.
package source
