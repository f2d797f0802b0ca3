package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// persistMeta describes the calendar files written for one session.
type persistMeta struct {
	Session   string    `json:"session"`
	Period    string    `json:"period"`
	Files     []string  `json:"files"`
	WrittenAt time.Time `json:"written_at"`
}

// persistArtifacts writes every artifact of the entry under
// dir/<session id>/, followed by a meta.json describing them. Bodies are
// written first so meta never points at missing files.
func persistArtifacts(dir, id string, e *Entry) error {
	sessionDir := filepath.Join(dir, id)
	if err := os.MkdirAll(sessionDir, 0o700); err != nil {
		return err
	}

	meta := persistMeta{
		Session: id,
		Period:  e.Period.String(),
	}

	for _, name := range e.Grid.Names() {
		art, ok := e.Artifacts[name]
		if !ok {
			continue
		}
		path := filepath.Join(sessionDir, art.Filename)
		if err := os.WriteFile(path, art.Body, 0o600); err != nil {
			return err
		}
		meta.Files = append(meta.Files, art.Filename)
	}

	meta.WrittenAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(sessionDir, "meta.json"), data, 0o600)
}

// removePersisted deletes a session's calendar directory.
func removePersisted(dir, id string) error {
	return os.RemoveAll(filepath.Join(dir, id))
}
