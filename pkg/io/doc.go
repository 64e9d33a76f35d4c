// Package io reads rule/sequence input files and writes JSON reports.
//
// # Input Format
//
// An input file has two sections separated by the first empty line:
//
//	47|53
//	97|13
//	97|61
//
//	75,47,61,53,29
//	97,61,53,29,13
//
// The first section holds one rule per line ("before|after"), the second one
// sequence per line (comma separated items). Lines are trimmed of surrounding
// whitespace; empty lines after the separator are ignored. A file without an
// empty line has rules only.
//
// [ReadInput] and [ImportFile] only split the file into numbered lines; they
// do not parse rules or sequences. Parsing and the policy for malformed lines
// live in the pipeline, so that line numbers can be reported with each error.
//
// The same content can be sent as JSON, as the HTTP API does:
//
//	{"rules": ["47|53", "97|13"], "sequences": ["75,47,61,53,29"]}
//
// Use [ReadJSONInput] to decode it into the same [Input] type.
//
// # Reports
//
// [WriteJSON] and [ExportJSON] encode a [Report], the per-sequence outcome of
// a run plus the two sums, as indented JSON. [ReadReport] decodes it again.
package io
