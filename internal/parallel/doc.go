// Package parallel distributes per-row image work across CPU cores.
//
// The software fog path spends nearly all of its time in loops of the
// form "for every row, shade every texel". Rows in those loops touch
// disjoint memory, so the package splits the row range into contiguous
// chunks and runs one chunk per goroutine. There is no persistent
// pool: each call spawns its workers and waits for them, so callers
// see plain synchronous semantics and results stay deterministic.
package parallel
