// Package biquad implements second-order IIR filter sections on Q1.23
// fixed-point samples with Q2.30 coefficients.
//
// [Section] is a single Direct Form I biquad: delay lines of depth two for
// both input and output, full-width int64 multiply-accumulate, one final
// rescale-and-saturate per sample. [Chain] cascades sections for higher-order
// filters.
//
// Processing is deterministic and branch-free on signal content; for the same
// state and input, the output and next state are always identical.
package biquad
