// Package dynamics provides the fixed-point level detection and gain stages
// of the compensation pipeline.
//
// Included processors:
//   - EnvelopeDetector: asymmetric one-pole follower on rectified samples.
//   - Compressor: per-band wide-dynamic-range compression (WDRC) with
//     log2-domain gain computation and asymmetric gain smoothing.
//   - Gate: two-threshold hysteresis noise gate with smoothed gain.
//   - Limiter: fast-attack output limiter with bounded lookahead and an
//     unconditional hard-clip safety stage.
//
// All per-tick arithmetic is fixed point and deterministic: the same state
// and input always produce the same output and next state. Signal levels and
// gains move through a Q8.23 log2 domain ([Level]); the log2 and exp2
// mappings are monotonic polynomial approximations evaluated in integer
// arithmetic.
//
// Attack and release times arrive pre-converted as per-tick Q2.30
// coefficients; the time-to-coefficient conversion helpers in this package
// exist for configuration loaders and never run inside the tick path.
package dynamics
