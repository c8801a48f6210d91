// Package subtitle converts broadcast subtitle documents into SRT.
//
// Two source formats are supported: EBU-TT-D styled XML and WEBVTT. Both
// parse into a shared intermediate sequence of timed caption blocks, which
// the SRT generator renders into a colorized SRT document and a plain
// transcript, applying a configurable line-exclusion filter.
package subtitle
