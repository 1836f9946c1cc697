// Package crossover provides Linkwitz-Riley crossover networks that split a
// Q1.23 fixed-point audio stream into frequency bands.
//
// [Crossover] is a two-way LR4 network: each half cascades two second-order
// Butterworth biquads, giving -6.02 dB at the crossover frequency and allpass
// summation. [MultiBand] chains two-way crossovers so that B crossover points
// yield B+1 bands from 2B biquad pairs; at each point the highpass output is
// one band and the lowpass remainder feeds the next stage down.
//
// Reconstruction invariant: summing all band outputs with unity per-band gain
// reproduces the input to within accumulated fixed-point rounding error, not
// filter design error.
package crossover
