package ytdlp

import "errors"

// ErrNotFound indicates the yt-dlp binary is not installed or not on PATH.
var ErrNotFound = errors.New("yt-dlp not found")

// ErrMetadataUnavailable indicates metadata could not be fetched for the
// identifier. Fatal to the run: derivation requires at least a title.
var ErrMetadataUnavailable = errors.New("metadata unavailable")

// ErrDownloadFailed indicates the audio stream could not be downloaded.
var ErrDownloadFailed = errors.New("download failed")

// ErrPlaylist indicates the identifier resolves to a playlist rather than
// a single media item. Playlist mode is a short-circuit: each entry must
// be ripped individually.
var ErrPlaylist = errors.New("identifier is a playlist, not a single item")

// ErrAudioMissing indicates the audio file was not present after a
// reported successful download.
var ErrAudioMissing = errors.New("audio file missing after download")
