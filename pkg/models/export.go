package models

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"

	"github.com/fingerco/MetalFun/pkg/shapes"
)

// Formats lists the file extensions Export and Load understand.
var Formats = []string{".glb", ".stl", ".obj"}

// Export writes box to path in the format named by its extension. A failed
// export leaves nothing at path, or whatever was there before.
func Export(path string, box shapes.Box) error {
	ext := strings.ToLower(filepath.Ext(path))
	var err error
	switch ext {
	case ".glb":
		err = WriteGLB(path, box)
	case ".stl":
		err = writeFile(path, func(w io.Writer) error { return WriteSTL(w, box) })
	case ".obj":
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		err = writeFile(path, func(w io.Writer) error { return WriteOBJ(w, name, box) })
	default:
		return fmt.Errorf("unsupported format: %q (use %s)", ext, strings.Join(Formats, ", "))
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Infof("wrote %s (%d triangles)", path, box.TriangleCount())
	return nil
}

// writeFile runs write against a temporary file in path's directory and
// renames it to path only when write and close both succeed.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			if rerr := os.Remove(tmp); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
				log.Warnf("can't remove %s: %v", tmp, rerr)
			}
		}
	}()
	err = write(f)
	if err == nil {
		err = f.Chmod(0o644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a model file, picking the parser from the extension.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		return LoadGLB(path)
	case ".stl":
		return LoadSTL(path)
	case ".obj":
		return LoadOBJ(path)
	default:
		return nil, fmt.Errorf("unsupported format: %q (use .glb, .gltf, .stl or .obj)", ext)
	}
}
