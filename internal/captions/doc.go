// Package captions reads WebVTT and SRT caption files into interval tracks.
package captions
