package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey is the key of a computed result.
	ResultKey(sceneHash string, opts ResultKeyOpts) string
	// ArtifactKey is the key of a rendered artifact.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts are the options that change a computed result.
type ResultKeyOpts struct {
	Placement string `json:"placement,omitempty"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Placement string `json:"placement,omitempty"`
	Theme     string `json:"theme,omitempty"`
	Labels    bool   `json:"labels,omitempty"`
	Cols      int    `json:"cols,omitempty"`
	Rows      int    `json:"rows,omitempty"`
}

// DefaultKeyer hashes the scene hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) ResultKey(sceneHash string, opts ResultKeyOpts) string {
	return hashKey("result", sceneHash, opts)
}

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

// Hash returns the hex SHA-256 of data. Scenes are identified by the hash of
// their source bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "prefix:" followed by the hash of the JSON-encoded parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
