package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/flexdock/pkg/model"
)

// FrameSet is the JSON form of one layout pass.
type FrameSet struct {
	Width  int           `json:"width" bson:"width"`
	Height int           `json:"height" bson:"height"`
	Frames []model.Frame `json:"frames" bson:"frames"`
}

// RenderJSON encodes frames as an indented FrameSet.
func RenderJSON(frames []model.Frame, width, height int) ([]byte, error) {
	if frames == nil {
		frames = []model.Frame{}
	}
	data, err := json.MarshalIndent(FrameSet{Width: width, Height: height, Frames: frames}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal frames: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadJSON decodes the output of RenderJSON.
func ReadJSON(data []byte) (FrameSet, error) {
	var fs FrameSet
	if err := json.Unmarshal(data, &fs); err != nil {
		return FrameSet{}, fmt.Errorf("unmarshal frames: %w", err)
	}
	if fs.Width < 0 || fs.Height < 0 {
		return FrameSet{}, fmt.Errorf("unmarshal frames: negative size %dx%d", fs.Width, fs.Height)
	}
	return fs, nil
}
