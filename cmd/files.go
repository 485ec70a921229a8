package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/sitereport/internal/images"
	"github.com/lehigh-university-libraries/sitereport/internal/models"
)

// collectPaths expands the arguments into image paths. Directories
// contribute their .jpg/.jpeg files, non-recursively, in directory order.
func collectPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if !images.AllowedExtension(arg) {
				return nil, fmt.Errorf("unsupported file type: %s (only .jpg and .jpeg are accepted)", arg)
			}
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && images.AllowedExtension(entry.Name()) {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}

func readImages(paths []string) ([]models.SourceImage, error) {
	result := make([]models.SourceImage, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		result = append(result, models.SourceImage{
			Filename: filepath.Base(path),
			Size:     len(data),
			Data:     data,
		})
	}
	return result, nil
}
