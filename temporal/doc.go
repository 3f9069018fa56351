// Package temporal turns a window of per-field static masks into the
// per-pixel decision grid that drives reconstruction.
//
// For every output row of the parity being rebuilt, BuildMask interleaves
// the static flags of the current field with those of the opposite field
// above and below, scans the interleaved sequence for runs of static
// samples and maps the resulting pattern through the motion-type tables to
// a decision Code. Rows of the kept parity are always KeepCurrent.
package temporal
