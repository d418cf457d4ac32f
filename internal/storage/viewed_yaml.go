package storage

import (
	"sort"

	"cozyfocus/internal/core/celebration"
)

const viewedFileName = "viewed.yaml"

type yamlViewed struct {
	Viewed []string `yaml:"viewed"`
}

// ViewedFile stores the ids of celebrations the user has seen.
type ViewedFile struct {
	dir Dir
}

var _ celebration.ViewedRepository = ViewedFile{}

// Viewed returns the viewed set repository.
func (dir Dir) Viewed() ViewedFile {
	return ViewedFile{dir: dir}
}

// LoadViewed returns the stored ids, none when the file is missing.
func (file ViewedFile) LoadViewed() ([]string, error) {
	var fileData yamlViewed
	if _, err := file.dir.readYAML(viewedFileName, &fileData); err != nil {
		return nil, err
	}
	return fileData.Viewed, nil
}

// SaveViewed replaces the stored ids.
func (file ViewedFile) SaveViewed(ids []string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return file.dir.writeYAML(viewedFileName, yamlViewed{Viewed: sorted})
}
