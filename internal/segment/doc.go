// Package segment splits normalized review text into sentences.
//
// A base Detector proposes boundaries; the Segmenter then walks the
// proposals once, dropping noise, splitting inline numbered lists,
// re-attaching fragments the detector split too eagerly, force-splitting
// run-on sentences and keeping parenthetical asides together.
package segment
