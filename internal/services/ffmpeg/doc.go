// Package ffmpeg wraps the external ffmpeg binary used to compress client
// videos.
//
// The CLI client shells out with a fixed parameter set per quality profile
// (libx264 plus aac), reads ffmpeg's machine-readable progress stream from
// stdout, and reports percentage updates through a callback. Duration comes
// from an ffprobe run up front; when probing fails the encode still runs but
// progress percentages are unavailable.
package ffmpeg
