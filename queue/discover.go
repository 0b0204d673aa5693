package queue

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"renderbot/types"
)

// DiscoverBatch builds a batch from a project folder on disk, the
// alternative to UI submission. The folder name becomes the project name
// and every scene subfolder holding a script file contributes one item
// titled after the scene. Scenes without a script are skipped with a
// warning; a project with no usable scenes is an error.
func DiscoverBatch(projectDir, avatar string) (*types.QueueBatch, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("read project folder: %w", err)
	}

	batch := &types.QueueBatch{
		ProjectName: filepath.Base(filepath.Clean(projectDir)),
		Avatar:      avatar,
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		scriptPath, ok := findScript(filepath.Join(projectDir, e.Name()))
		if !ok {
			log.Printf("⚠️ Skipping scene %q (no script found)", e.Name())
			continue
		}
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("read script %s: %w", scriptPath, err)
		}
		script := strings.TrimSpace(string(data))
		if script == "" {
			log.Printf("⚠️ Skipping scene %q (script file is empty)", e.Name())
			continue
		}
		batch.Items = append(batch.Items, types.QueueItem{Title: e.Name(), Script: script})
	}

	if len(batch.Items) == 0 {
		return nil, fmt.Errorf("no scene scripts found under %s", projectDir)
	}
	ApplyDefaults(batch)
	return batch, nil
}

// findScript returns the first .txt or .text file in a scene folder,
// alphabetically, so repeated discovery reads the same script.
func findScript(sceneDir string) (string, bool) {
	entries, err := os.ReadDir(sceneDir)
	if err != nil {
		return "", false
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".text":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return filepath.Join(sceneDir, names[0]), true
}
