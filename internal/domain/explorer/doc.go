// Package explorer implements the mock file explorer's navigation model.
//
// A Navigator walks a static, read-only folder tree. It tracks the
// breadcrumb path from a root to the selected node and the listing shown for
// that node. Listings come from a static table keyed by node id; a node with
// no table entry is simply an empty folder.
//
// Path lookups are pre-order depth-first searches over the ordered roots, so
// the first match wins even if ids were ever duplicated.
package explorer
