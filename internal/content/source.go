// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"io/fs"
)

// Source provides the raw post files. Read must return an error wrapping
// fs.ErrNotExist when the named file does not exist.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

// fsSource serves posts from the top level of a file system.
type fsSource struct {
	fsys fs.FS
}

// FSSource returns a Source reading files from the root of fsys. Use
// os.DirFS for a posts directory on disk.
func FSSource(fsys fs.FS) Source {
	return &fsSource{fsys: fsys}
}

// List returns the names of regular files in the root, sorted by name.
func (s *fsSource) List(_ context.Context) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read posts dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *fsSource) Read(_ context.Context, name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read post %s: %w", name, err)
	}
	return data, nil
}
