package models

import (
	"encoding/json"
	"time"
)

type Production struct {
	ID            int64     `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Topic         string    `db:"topic" json:"topic"`
	Status        string    `db:"status" json:"status"` // processing, ready, failed
	Priority      int       `db:"priority" json:"priority"`
	Artifacts     Artifacts `db:"artifacts" json:"artifacts"`
	Timeline      Timeline  `db:"timeline" json:"timeline"`
	ScheduledTime time.Time `db:"scheduled_time" json:"scheduled_time"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Artifact is the output of one pipeline stage. Either a real media
// file (Path set, possibly mirrored to object storage at StorageKey)
// or a simulated placeholder substituted after a generator failure.
type Artifact struct {
	Path       string `json:"path,omitempty"`
	StorageKey string `json:"storage_key,omitempty"`
	Simulated  bool   `json:"simulated"`
	Descriptor string `json:"descriptor,omitempty"`
}

type Artifacts struct {
	Script    *Artifact `json:"script,omitempty"`
	Thumbnail *Artifact `json:"thumbnail,omitempty"`
	Video     *Artifact `json:"video,omitempty"`
	Audio     *Artifact `json:"audio,omitempty"`
	Captions  *Artifact `json:"captions,omitempty"`
	Bundle    *Artifact `json:"bundle,omitempty"`
}

// Timeline records when each stage completed. Entries are written
// exactly once and never cleared.
type Timeline map[string]time.Time

const (
	StageScript    = "script-formatting"
	StageThumbnail = "thumbnail-processing"
	StageVideo     = "video-asset-generation"
	StageAudio     = "audio-narration"
	StageCaptions  = "caption-generation"
	StageAssembly  = "final-assembly"
)

// Stages is the fixed production order.
var Stages = []string{
	StageScript,
	StageThumbnail,
	StageVideo,
	StageAudio,
	StageCaptions,
	StageAssembly,
}

const (
	ProductionStatusProcessing = "processing"
	ProductionStatusReady      = "ready"
	ProductionStatusFailed     = "failed"
)

func (a *Artifacts) Get(stage string) *Artifact {
	switch stage {
	case StageScript:
		return a.Script
	case StageThumbnail:
		return a.Thumbnail
	case StageVideo:
		return a.Video
	case StageAudio:
		return a.Audio
	case StageCaptions:
		return a.Captions
	case StageAssembly:
		return a.Bundle
	}
	return nil
}

func (a *Artifacts) Set(stage string, artifact *Artifact) {
	switch stage {
	case StageScript:
		a.Script = artifact
	case StageThumbnail:
		a.Thumbnail = artifact
	case StageVideo:
		a.Video = artifact
	case StageAudio:
		a.Audio = artifact
	case StageCaptions:
		a.Captions = artifact
	case StageAssembly:
		a.Bundle = artifact
	}
}

func (a Artifacts) MarshalBlob() ([]byte, error) {
	return json.Marshal(a)
}

func (t Timeline) MarshalBlob() ([]byte, error) {
	return json.Marshal(t)
}
