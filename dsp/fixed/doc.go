// Package fixed provides the saturating fixed-point arithmetic primitives
// shared by every stage of the processing pipeline.
//
// Three formats are used throughout:
//
//   - [Sample]: Q1.23 audio samples in [-1.0, +1.0)
//   - [Coeff]: Q2.30 filter and smoothing coefficients in [-2.0, +2.0)
//   - [Gain]: Q8.24 linear gain factors
//
// Multiply-accumulate intermediates are plain int64 (≥48 bits of headroom);
// no product or sum is truncated before a single explicit saturate step back
// to Sample width. All saturation is silent at this layer — overflow clamps
// instead of wrapping, and components count clamp events via [SatCounter]
// for external diagnostics.
package fixed
