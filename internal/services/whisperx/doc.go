// Package whisperx wraps the two external tools the corpus builder shells
// out to: ffmpeg for cutting mono WAV clips out of a media file, and WhisperX
// (run through uvx) for transcribing them.
//
// Oracle adapts a Service to the reliability.Oracle interface for one media
// file. Service.ExtractClip is the audio extractor used by the exporter.
package whisperx
