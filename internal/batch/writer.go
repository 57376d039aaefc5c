package batch

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFiles writes every successful document to dir as {id}.xml. Each file
// lands atomically: content goes to a temporary path first and is renamed
// into place only after the write succeeded. The batch is all-or-nothing:
// if any temporary write fails, nothing is renamed and the temporaries are
// removed. Updates outcome.FilesCreated.
func WriteFiles(outcome *Outcome, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}

	type pending struct {
		tmp   string
		final string
	}
	var staged []pending
	cleanup := func() {
		for _, p := range staged {
			_ = os.Remove(p.tmp)
		}
	}

	for _, rec := range outcome.Documents {
		if rec.Err != nil || rec.XML == "" {
			continue
		}
		final := filepath.Join(dir, rec.ID+".xml")
		tmp, err := stageFile(dir, rec.ID, rec.XML)
		if err != nil {
			cleanup()
			return err
		}
		staged = append(staged, pending{tmp: tmp, final: final})
	}

	for i, p := range staged {
		if err := os.Rename(p.tmp, p.final); err != nil {
			for _, rest := range staged[i:] {
				_ = os.Remove(rest.tmp)
			}
			return fmt.Errorf("rename %s: %w", p.final, err)
		}
		outcome.FilesCreated++
	}
	return nil
}

func stageFile(dir, id, content string) (string, error) {
	f, err := os.CreateTemp(dir, "."+id+"-*.xml.tmp")
	if err != nil {
		return "", fmt.Errorf("stage %s.xml: %w", id, err)
	}
	tmp := f.Name()
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write %s.xml: %w", id, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("close %s.xml: %w", id, err)
	}
	return tmp, nil
}
