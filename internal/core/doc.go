// Package core turns a spreadsheet grid into person and vehicle records.
//
// The pipeline runs in four steps, each usable on its own:
//
//  1. [LocateHeader] or [DiscoverHeader] picks the header row.
//  2. [Mapper] resolves every [FieldKey] to a column, manual values first and
//     keyword heuristics second.
//  3. [Extract] reads the rows below the header into [PersonRecord] values.
//  4. [Importer] ties the steps to a source and to the config and record
//     repositories, replacing the stored records only when a run succeeds.
//
// # Keywords
//
// Header discovery and heuristic mapping compare upper-cased, trimmed cell
// text against [Keywords]. Built-in groups come from [DefaultKeywords]; a
// YAML file ([LoadKeywordsFile]) and per-config edits
// ([ImportConfig.SetKeywords]) override them group by group.
//
// # Error Handling
//
// Failures are sentinel errors wrapped with context. [MapError] translates
// them into coded user messages:
//
//   - SRC001-SRC004: source errors (bad link, unreachable, format, none set)
//   - HDR001-HDR002: header row errors
//   - MAP001-MAP002: mapping errors
//   - EXT001: no records extracted
//   - RUN001: another import is running
package core
