// Package design computes biquad coefficient sets in float64 and quantizes
// them to the Q2.30 format consumed by the fixed-point filter sections.
//
// Design runs at configuration time only; nothing in this package executes
// per tick. The RBJ cookbook lowpass/highpass prototypes and the LR4
// (Linkwitz-Riley 4th order) crossover halves built from them match the
// coefficient generator used for the original hardware target.
package design
