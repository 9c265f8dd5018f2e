// Package assets defines the collaborator seams for trainer avatars and
// encouragement voice clips. The engine only hands over opaque lookup
// keys and fallback text; it never interprets asset content.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrAssetNotFound indicates an opaque asset name did not resolve.
var ErrAssetNotFound = errors.New("asset not found")

// Resolver turns an opaque asset name (avatar image, voice prefix) into a
// usable resource path.
type Resolver interface {
	Resolve(name string) (string, error)
}

// VoicePlayer attempts playback of a resolved voice asset and must fall
// back to presenting the text when playback is unavailable. Callers never
// block on playback completion.
type VoicePlayer interface {
	Play(assetPath, fallbackText string) error
}

// DirResolver resolves asset names against files under a root directory.
type DirResolver struct {
	root string
}

func NewDirResolver(root string) *DirResolver {
	return &DirResolver{root: root}
}

func (r *DirResolver) Resolve(name string) (string, error) {
	path := filepath.Join(r.root, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%q: %w", name, ErrAssetNotFound)
	}
	return path, nil
}

// TextPlayer is the terminal voice player: it always falls back to
// printing the encouragement text.
type TextPlayer struct {
	Out io.Writer
}

func (p *TextPlayer) Play(_ string, fallbackText string) error {
	if fallbackText == "" {
		return nil
	}
	_, err := fmt.Fprintln(p.Out, fallbackText)
	return err
}
