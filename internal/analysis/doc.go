// Package analysis inspects the metric series of stored runs.
//
//   - [PowerSpectrum]: windowed FFT of a series, for finding how fast a rope
//     or cloth swings
//   - [SettlingTime]: when a series stops changing, for finding when a scene
//     comes to rest
//
// Series are sampled at the frame rate of the run; [SampleRate] recovers it
// from the recorded times.
package analysis
