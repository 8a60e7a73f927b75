package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/repository"
)

const (
	filePrefix = "products_"
	fileExt    = ".json"
	timeLayout = "20060102T150405.000Z"
)

// Store is the part of the record store a backup needs.
type Store interface {
	List() []domain.Product
	Replace(ctx context.Context, products []domain.Product) error
}

type Service struct {
	store Store
	dir   string
	now   func() time.Time
}

func NewService(store Store, dir string) *Service {
	return &Service{store: store, dir: dir, now: time.Now}
}

func (s *Service) Dir() string {
	return s.dir
}

// Backup writes the current catalog to dir/products_<timestamp>.json and returns the path.
func (s *Service) Backup(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := repository.Encode(s.store.List())
	if err != nil {
		return "", err
	}

	name := filePrefix + s.now().UTC().Format(timeLayout) + fileExt
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("backup failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("backup failed: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("backup failed: %w", err)
	}
	return path, nil
}

// Restore replaces the whole catalog with the content of a backup file.
func (s *Service) Restore(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open backup file: %w", err)
	}
	if len(data) == 0 {
		return 0, errors.New("backup file is empty")
	}

	products, err := repository.Decode(data)
	if err != nil {
		return 0, err
	}
	if err := s.store.Replace(ctx, products); err != nil {
		return 0, fmt.Errorf("restore failed: %w", err)
	}
	return len(products), nil
}

// List returns the backup files in dir, oldest first.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		files = append(files, filepath.Join(s.dir, name))
	}
	sort.Strings(files)
	return files, nil
}
