// Package frame is the in-memory table model: Series, Dataframe and the
// Registry that names them.
//
// A Dataframe keeps an ordered list of unique series names and one row per
// label. After every mutating call each row holds exactly one value per
// series; gaps are filled with the caller's fill-in value.
//
// Cell values are nil (no value), string, float64, int64, bool or Invalid,
// the marker left behind by a failed cast.
package frame
