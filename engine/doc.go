// Package engine defines the per-layer draw engine contract and the
// registries that own engines by layer name.
//
// An engine holds the backend resources of one chart layer. Registries
// create engines lazily on first use, clear their data when the chart is
// replaced and destroy them only at teardown, so frequent chart reloads do
// not churn GPU allocations.
package engine
