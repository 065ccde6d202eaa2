package video

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProbeResult is the subset of ffprobe's JSON output the pipeline reads.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
}

type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

func parseProbe(output []byte) (ProbeResult, error) {
	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// VideoStream returns the first video stream.
func (r ProbeResult) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// HasAudio reports whether any audio stream is present.
func (r ProbeResult) HasAudio() bool {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return true
		}
	}
	return false
}

// FrameRate returns the primary video stream's frame rate, see ParseFrameRate.
func (r ProbeResult) FrameRate() (int, error) {
	stream, ok := r.VideoStream()
	if !ok {
		return 0, fmt.Errorf("frame rate: no video stream")
	}
	return ParseFrameRate(stream.RFrameRate)
}

// ParseFrameRate parses ffprobe's rational "num/den" rate and integer-divides
// it: "24000/1001" yields 23 and rates below one yield 0. Callers that need a
// usable rate must reject 0 themselves.
func ParseFrameRate(value string) (int, error) {
	value = strings.TrimSpace(value)
	numText, denText, found := strings.Cut(value, "/")
	if !found {
		denText = "1"
	}

	num, err := strconv.Atoi(strings.TrimSpace(numText))
	if err != nil {
		return 0, fmt.Errorf("frame rate %q: %w", value, err)
	}
	den, err := strconv.Atoi(strings.TrimSpace(denText))
	if err != nil {
		return 0, fmt.Errorf("frame rate %q: %w", value, err)
	}
	if den == 0 {
		return 0, fmt.Errorf("frame rate %q: zero denominator", value)
	}
	if num < 0 || den < 0 {
		return 0, fmt.Errorf("frame rate %q: negative", value)
	}
	return num / den, nil
}
