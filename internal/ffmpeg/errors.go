package ffmpeg

import "errors"

// ErrNotFound indicates the ffmpeg binary is not installed or not on PATH.
var ErrNotFound = errors.New("ffmpeg not found")

// ErrTranscodeFailed indicates ffmpeg exited with an error while producing
// an output file.
var ErrTranscodeFailed = errors.New("transcode failed")
